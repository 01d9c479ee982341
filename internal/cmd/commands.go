package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/matecat/go-dqf/internal/cmd/base"
	"github.com/matecat/go-dqf/internal/cmd/commands/attributes"
	"github.com/matecat/go-dqf/internal/cmd/commands/project"
	"github.com/matecat/go-dqf/internal/cmd/commands/version"
)

// Commands is the mapping of all available commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"attributes": func() (cli.Command, error) {
			return &attributes.Command{Command: b}, nil
		},
		"attributes refresh": func() (cli.Command, error) {
			return &attributes.RefreshCommand{Command: b}, nil
		},
		"attributes resolve": func() (cli.Command, error) {
			return &attributes.ResolveCommand{Command: b}, nil
		},
		"project": func() (cli.Command, error) {
			return &project.Command{Command: b}, nil
		},
		"project get": func() (cli.Command, error) {
			return &project.GetCommand{Command: b}, nil
		},
		"project delete": func() (cli.Command, error) {
			return &project.DeleteCommand{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}

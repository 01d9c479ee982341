package attributes

import (
	"github.com/mitchellh/cli"

	"github.com/matecat/go-dqf/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Manage the attribute snapshot"
}

func (c *Command) Help() string {
	return `Usage: dqf attributes <subcommand> [options] [args]

  This command groups subcommands for the enumeration list (languages,
  severities, MT engines and so on) that the service publishes.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

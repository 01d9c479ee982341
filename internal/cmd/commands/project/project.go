package project

import (
	"context"
	"fmt"

	"github.com/mitchellh/cli"

	"github.com/matecat/go-dqf/internal/cmd/base"
	"github.com/matecat/go-dqf/pkg/dqf"
	"github.com/matecat/go-dqf/pkg/repository"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Inspect and remove projects"
}

func (c *Command) Help() string {
	return `Usage: dqf project <subcommand> [options] [args]

  This command groups subcommands for master and child projects stored in
  the service.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

// projectRef is the set of flags identifying a remote project.
type projectRef struct {
	config string
	kind   string
	id     int64
	key    string
}

func (r *projectRef) register(f *base.FlagSet) {
	f.StringVar(&r.config, "config", "", "Path to the configuration file")
	f.StringVar(&r.kind, "type", "master", "Project variant: master or child")
	f.Int64Var(&r.id, "id", 0, "(Required) Remote project id")
	f.StringVar(&r.key, "key", "", "(Required) Remote project key")
}

func (r *projectRef) validate() error {
	if r.kind != "master" && r.kind != "child" {
		return fmt.Errorf("type must be master or child, got %q", r.kind)
	}
	if r.id <= 0 {
		return fmt.Errorf("id flag is required")
	}
	if r.key == "" {
		return fmt.Errorf("key flag is required")
	}
	return nil
}

// store is the part of a project repository the commands use.
type store interface {
	Get(ctx context.Context, id int64, key string) (*dqf.Project, error)
	Delete(ctx context.Context, p *dqf.Project) error
}

func (r *projectRef) store(cfg repository.Config) (store, error) {
	if r.kind == "master" {
		repo, err := repository.NewMasterProjectRepository(cfg)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
	repo, err := repository.NewChildProjectRepository(cfg)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

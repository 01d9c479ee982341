package project

import (
	"flag"
	"fmt"

	"github.com/matecat/go-dqf/internal/cmd/base"
)

type DeleteCommand struct {
	*base.Command

	ref projectRef
}

func (c *DeleteCommand) Synopsis() string {
	return "Delete a project"
}

func (c *DeleteCommand) Help() string {
	return `Usage: dqf project delete [options]

  Deletes a master or child project. The service refuses to delete a project
  whose tree still holds reviews.` + c.Flags().Help()
}

func (c *DeleteCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("delete", flag.ContinueOnError))
	c.ref.register(f)
	return f
}

func (c *DeleteCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if err := c.ref.validate(); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	env, err := c.LoadEnv(c.ref.config)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	if err := env.InitResolver(ctx); err != nil {
		c.UI.Error(fmt.Sprintf("error loading attributes: %v", err))
		return 1
	}

	repo, err := c.ref.store(env.RepositoryConfig())
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	p, err := repo.Get(ctx, c.ref.id, c.ref.key)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error fetching project: %v", err))
		return 1
	}
	if p == nil {
		c.UI.Error(fmt.Sprintf("%s project %d not found", c.ref.kind, c.ref.id))
		return 1
	}

	if err := repo.Delete(ctx, p); err != nil {
		c.UI.Error(fmt.Sprintf("error deleting project: %v", err))
		return 1
	}

	c.Log.Info("project deleted", "type", c.ref.kind, "project_id", c.ref.id)
	c.UI.Output(fmt.Sprintf("Deleted %s project %d", c.ref.kind, c.ref.id))
	return 0
}

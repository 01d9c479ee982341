package project

import (
	"flag"
	"fmt"
	"strings"

	"github.com/matecat/go-dqf/internal/cmd/base"
)

type GetCommand struct {
	*base.Command

	ref        projectRef
	flagFormat string
}

func (c *GetCommand) Synopsis() string {
	return "Print a project with its files and target languages"
}

func (c *GetCommand) Help() string {
	return `Usage: dqf project get [options]

  Fetches a master or child project and prints it. Child projects include
  the id of the master project they belong to.` + c.Flags().Help()
}

func (c *GetCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("get", flag.ContinueOnError))

	c.ref.register(f)
	f.StringVar(
		&c.flagFormat, "format", "json", "Output format: json or yaml",
	)

	return f
}

func (c *GetCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if err := c.ref.validate(); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if c.flagFormat != "json" && c.flagFormat != "yaml" {
		c.UI.Error(fmt.Sprintf("unsupported format %q", c.flagFormat))
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

	var out strings.Builder
	if err := NewView(p).Write(&out, c.flagFormat); err != nil {
		c.UI.Error(fmt.Sprintf("error encoding project: %v", err))
		return 1
	}
	c.UI.Output(strings.TrimSuffix(out.String(), "\n"))
	return 0
}

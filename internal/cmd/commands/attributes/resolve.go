package attributes

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/matecat/go-dqf/internal/cmd/base"
	dqfattrs "github.com/matecat/go-dqf/pkg/attributes"
)

type ResolveCommand struct {
	*base.Command

	flagConfig string
	flagKind   string
	flagByID   bool
}

func (c *ResolveCommand) Synopsis() string {
	return "Look up attribute records by key or id"
}

func (c *ResolveCommand) Help() string {
	return `Usage: dqf attributes resolve [options] KEY...

  Resolves each KEY against the attribute snapshot and prints its id and
  name. Languages are keyed by locale code (for example "it-IT"), other kinds
  by name. With -by-id, each argument is a numeric id instead.` + c.Flags().Help()
}

func (c *ResolveCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("resolve", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to the configuration file",
	)
	f.StringVar(
		&c.flagKind, "kind", "language",
		"Attribute kind, for example language, mt-engine or segment-origin",
	)
	f.BoolVar(
		&c.flagByID, "by-id", false, "Treat arguments as numeric ids",
	)

	return f
}

func (c *ResolveCommand) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	keys := flags.Args()
	if len(keys) == 0 {
		c.UI.Error("at least one key is required")
		return 1
	}

	kind, err := dqfattrs.ParseKind(c.flagKind)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	env, err := c.LoadEnv(c.flagConfig)
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

	failed := false
	for _, key := range keys {
		rec, err := c.lookup(env.Resolver, kind, key)
		if err != nil {
			c.UI.Error(fmt.Sprintf("%s: %v", key, err))
			failed = true
			continue
		}
		c.UI.Output(fmt.Sprintf("%s\t%d\t%s", rec.Key(), rec.ID, rec.Name))
	}
	if failed {
		return 1
	}
	return 0
}

func (c *ResolveCommand) lookup(r *dqfattrs.Resolver, kind dqfattrs.Kind, key string) (dqfattrs.Record, error) {
	if !c.flagByID {
		return r.Resolve(kind, key)
	}
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return dqfattrs.Record{}, fmt.Errorf("not a numeric id")
	}
	return r.Lookup(kind, id)
}

package attributes

import (
	"flag"
	"fmt"

	"github.com/matecat/go-dqf/internal/cmd/base"
	dqfattrs "github.com/matecat/go-dqf/pkg/attributes"
)

type RefreshCommand struct {
	*base.Command

	flagConfig string
}

func (c *RefreshCommand) Synopsis() string {
	return "Fetch the attribute list and rewrite the snapshot"
}

func (c *RefreshCommand) Help() string {
	return `Usage: dqf attributes refresh [options]

  Fetches every attribute kind from the service and stores the result in the
  configured snapshot (a local file or an S3 object).` + c.Flags().Help()
}

func (c *RefreshCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("refresh", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to the configuration file",
	)

	return f
}

func (c *RefreshCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	env, err := c.LoadEnv(c.flagConfig)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	mirror := &dqfattrs.Mirror{From: env.Source(), To: env.Snapshot}
	if err := env.Resolver.Init(ctx, mirror); err != nil {
		c.UI.Error(fmt.Sprintf("error refreshing attributes: %v", err))
		return 1
	}

	total := 0
	for _, kind := range dqfattrs.Kinds {
		records, _ := env.Resolver.Records(kind)
		total += len(records)
		c.UI.Output(fmt.Sprintf("%-14s %d", kind, len(records)))
	}
	c.Log.Info("attribute snapshot refreshed", "records", total)
	return 0
}

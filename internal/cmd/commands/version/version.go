package version

import (
	"github.com/matecat/go-dqf/internal/cmd/base"
	"github.com/matecat/go-dqf/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return `Usage: dqf version

  Prints the version of this binary.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output("dqf " + version.FullVersion())
	return 0
}

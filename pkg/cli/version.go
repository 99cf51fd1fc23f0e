package cli

import (
	"github.com/convox/stdcli"
)

func init() {
	registerWithoutProject("version", "display version information", Version, stdcli.CommandOptions{
		Validate: stdcli.Args(0),
	})
}

func Version(p *Project, c *stdcli.Context) error {
	c.Writef("version: <info>%s</info>\n", c.Version())

	return nil
}

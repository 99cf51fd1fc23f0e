package cli

import (
	"github.com/convox/stdcli"
)

func init() {
	register("check", "validate a compose file", Check, stdcli.CommandOptions{
		Flags:    []stdcli.Flag{flagDebug, flagFile},
		Validate: stdcli.Args(0),
	})
}

func Check(p *Project, c *stdcli.Context) error {
	c.Startf("Checking <info>%s</info>", p.Path)

	t, err := p.Load()
	if err != nil {
		return err
	}

	if err := c.OK(); err != nil {
		return err
	}

	return c.Writef("%d services, %d volumes\n", len(t.Services), len(t.Volumes))
}

package cli

import (
	"github.com/convox/stdcli"
)

func init() {
	register("config", "print the resolved compose file", Config, stdcli.CommandOptions{
		Flags:    []stdcli.Flag{flagDebug, flagFile},
		Validate: stdcli.Args(0),
	})
}

func Config(p *Project, c *stdcli.Context) error {
	t, err := p.Load()
	if err != nil {
		return err
	}

	data, err := t.Raw()
	if err != nil {
		return err
	}

	c.Writef("%s", string(data))

	return nil
}

package cli

import (
	"github.com/convox/stdcli"
	"github.com/convox/topology/pkg/topology"
)

func init() {
	register("volumes", "list volume mounts", Volumes, stdcli.CommandOptions{
		Flags:    []stdcli.Flag{flagDebug, flagFile},
		Validate: stdcli.Args(0),
	})
}

func Volumes(p *Project, c *stdcli.Context) error {
	t, err := p.Load()
	if err != nil {
		return err
	}

	tb := c.Table("SERVICE", "KIND", "SOURCE", "TARGET", "MODE")

	for _, s := range t.Services {
		for _, m := range s.Volumes {
			source := m.Source

			if m.Kind() == topology.MountBind {
				hp, err := m.HostPath(p.Dir)
				if err != nil {
					return err
				}
				source = hp
			}

			tb.AddRow(s.Name, m.Kind(), source, m.Target, m.Mode)
		}
	}

	return tb.Print()
}

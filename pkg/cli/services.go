package cli

import (
	"strings"

	"github.com/convox/stdcli"
)

func init() {
	register("services", "list services", Services, stdcli.CommandOptions{
		Flags:    []stdcli.Flag{flagDebug, flagFile},
		Validate: stdcli.Args(0),
	})
}

func Services(p *Project, c *stdcli.Context) error {
	t, err := p.Load()
	if err != nil {
		return err
	}

	tb := c.Table("SERVICE", "SOURCE", "PORTS")

	for _, s := range t.Services {
		ports := []string{}

		for _, port := range s.Ports {
			ports = append(ports, port.String())
		}

		tb.AddRow(s.Name, s.Source(), strings.Join(ports, " "))
	}

	return tb.Print()
}

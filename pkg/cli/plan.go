package cli

import (
	"fmt"
	"strings"

	"github.com/convox/stdcli"
)

func init() {
	register("plan", "show the order services start in", Plan, stdcli.CommandOptions{
		Flags: []stdcli.Flag{flagDebug, flagFile},
		Usage: "[service...]",
	})
}

func Plan(p *Project, c *stdcli.Context) error {
	t, err := p.Load()
	if err != nil {
		return err
	}

	if len(c.Args) > 0 {
		t, err = t.Subset(c.Args...)
		if err != nil {
			return err
		}
	}

	tb := c.Table("#", "SERVICE", "SOURCE", "DEPENDS")

	i := 0

	for s, err := range t.Startup() {
		if err != nil {
			return err
		}

		i++

		tb.AddRow(fmt.Sprintf("%d", i), s.Name, s.Source(), strings.Join(s.Dependencies(), ","))
	}

	return tb.Print()
}

package cli

import (
	"github.com/convox/stdcli"
)

type HandlerFunc func(*Project, *stdcli.Context) error

var (
	flagDebug = stdcli.BoolFlag("debug", "", "log to stderr")
	flagFile  = stdcli.StringFlag("file", "f", "compose file")
)

func New(name, version string) *Engine {
	e := &Engine{
		Engine: stdcli.New(name, version),
	}

	e.RegisterCommands()

	return e
}

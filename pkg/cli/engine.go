package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/convox/logger"
	"github.com/convox/stdcli"
	"github.com/convox/topology/pkg/helpers"
	"github.com/pkg/errors"
)

var composeFiles = []string{"docker-compose.yml", "docker-compose.yaml", "compose.yml", "compose.yaml"}

type Engine struct {
	*stdcli.Engine

	// Dir is the directory compose files are looked up in, the working directory
	// when empty.
	Dir string
}

func (e *Engine) Command(command, description string, fn HandlerFunc, opts stdcli.CommandOptions) {
	wfn := func(c *stdcli.Context) error {
		p, err := e.currentProject(c)
		if err != nil {
			return err
		}

		return fn(p, c)
	}

	e.Engine.Command(command, description, wfn, opts)
}

func (e *Engine) CommandWithoutProject(command, description string, fn HandlerFunc, opts stdcli.CommandOptions) {
	wfn := func(c *stdcli.Context) error {
		return fn(nil, c)
	}

	e.Engine.Command(command, description, wfn, opts)
}

func (e *Engine) RegisterCommands() {
	for _, c := range commands {
		if c.Project {
			e.Command(c.Command, c.Description, c.Handler, c.Opts)
		} else {
			e.CommandWithoutProject(c.Command, c.Description, c.Handler, c.Opts)
		}
	}
}

func (e *Engine) currentProject(c *stdcli.Context) (*Project, error) {
	wd := e.Dir

	if wd == "" {
		d, err := os.Getwd()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		wd = d
	}

	path := helpers.CoalesceString(c.String("file"), os.Getenv("COMPOSE_FILE"))

	if path == "" {
		f, ok := helpers.FirstExisting(wd, composeFiles...)
		if !ok {
			return nil, fmt.Errorf("no compose file found in %s, tried %s", wd, strings.Join(composeFiles, ", "))
		}
		path = filepath.Base(f)
	}

	file := path

	if !filepath.IsAbs(file) {
		file = filepath.Join(wd, file)
	}

	if !helpers.FileExists(file) {
		return nil, fmt.Errorf("no such file: %s", path)
	}

	env, err := environment(filepath.Dir(file))
	if err != nil {
		return nil, err
	}

	p := &Project{
		Dir:    filepath.Dir(file),
		Env:    env,
		File:   file,
		Path:   path,
		logger: e.logger(c).Namespace("file=%s", path),
	}

	return p, nil
}

func (e *Engine) logger(c *stdcli.Context) *logger.Logger {
	var w io.Writer = io.Discard

	if c.Bool("debug") {
		w = c.Writer().Stderr
	}

	return logger.NewWriter("ns=topology", w)
}

var commands = []command{}

type command struct {
	Command     string
	Description string
	Handler     HandlerFunc
	Opts        stdcli.CommandOptions
	Project     bool
}

func register(cmd, description string, fn HandlerFunc, opts stdcli.CommandOptions) {
	commands = append(commands, command{
		Command:     cmd,
		Description: description,
		Handler:     fn,
		Opts:        opts,
		Project:     true,
	})
}

func registerWithoutProject(cmd, description string, fn HandlerFunc, opts stdcli.CommandOptions) {
	commands = append(commands, command{
		Command:     cmd,
		Description: description,
		Handler:     fn,
		Opts:        opts,
		Project:     false,
	})
}

package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/convox/logger"
	"github.com/convox/topology/pkg/helpers"
	"github.com/convox/topology/pkg/topology"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Project is a compose file on disk and the environment it is interpolated with.
type Project struct {
	Dir  string
	Env  map[string]string
	File string
	Path string

	logger *logger.Logger
}

// Load reads, interpolates and validates the compose file.
func (p *Project) Load() (*topology.Topology, error) {
	log := p.logger.At("load").Start()

	data, err := os.ReadFile(p.File)
	if err != nil {
		return nil, log.Error(errors.WithStack(err))
	}

	t, err := topology.Load(data, p.Env)
	if err != nil {
		return nil, log.Error(err)
	}

	log.Successf("services=%d volumes=%d", len(t.Services), len(t.Volumes))

	return t, nil
}

// environment reads a .env file in dir, if there is one, and overlays the process
// environment on top of it.
func environment(dir string) (map[string]string, error) {
	env := map[string]string{}

	if df := filepath.Join(dir, ".env"); helpers.FileExists(df) {
		de, err := godotenv.Read(df)
		if err != nil {
			return nil, errors.Wrap(err, "could not read .env")
		}

		for k, v := range de {
			env[k] = v
		}
	}

	for _, kv := range os.Environ() {
		if parts := strings.SplitN(kv, "=", 2); len(parts) == 2 {
			env[parts[0]] = parts[1]
		}
	}

	return env, nil
}

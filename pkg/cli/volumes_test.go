package cli_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/convox/topology/pkg/cli"
	"github.com/stretchr/testify/require"
)

func TestVolumes(t *testing.T) {
	files := map[string]string{
		"docker-compose.yml": composeShop,
		".env":               "API_TAG=1.0\n",
	}

	testProject(t, files, func(e *cli.Engine) {
		res, err := testExecute(e, "volumes", nil)
		require.NoError(t, err)
		require.Equal(t, 0, res.Code)
		res.RequireStderr(t, []string{""})
		require.Equal(t, 4, res.StdoutLines())
		require.Equal(t, []string{"SERVICE", "KIND", "SOURCE", "TARGET", "MODE"}, strings.Fields(res.StdoutLine(0)))
		require.Equal(t, []string{"web", "bind", filepath.Join(e.Dir, "web"), "/app"}, strings.Fields(res.StdoutLine(1)))
		require.Equal(t, []string{"db", "volume", "pgdata", "/var/lib/postgresql/data"}, strings.Fields(res.StdoutLine(2)))
		require.Equal(t, []string{"db", "anonymous", "/tmp"}, strings.Fields(res.StdoutLine(3)))
	})
}

func TestVolumesDangling(t *testing.T) {
	compose := "services:\n  db:\n    image: postgres\n    volumes:\n      - db-data:/var/lib/postgresql/data\n"

	testProject(t, map[string]string{"docker-compose.yml": compose}, func(e *cli.Engine) {
		res, err := testExecute(e, "volumes", nil)
		require.NoError(t, err)
		require.Equal(t, 1, res.Code)
		res.RequireStderr(t, []string{"ERROR: dangling reference: service db references undeclared volume db-data"})
	})
}

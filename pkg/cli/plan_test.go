package cli_test

import (
	"testing"

	"github.com/convox/topology/pkg/cli"
	"github.com/stretchr/testify/require"
)

func TestPlan(t *testing.T) {
	files := map[string]string{
		"docker-compose.yml": composeShop,
		".env":               "API_TAG=1.0\n",
	}

	testProject(t, files, func(e *cli.Engine) {
		res, err := testExecute(e, "plan", nil)
		require.NoError(t, err)
		require.Equal(t, 0, res.Code)
		res.RequireStderr(t, []string{""})
		res.RequireStdout(t, []string{
			"#  SERVICE  SOURCE                  DEPENDS",
			"1  db       postgres:13-alpine      ",
			"2  api      docker.io/shop/api:1.0  db",
			"3  web      ./web                   api",
		})
	})
}

func TestPlanEnvironmentOverride(t *testing.T) {
	files := map[string]string{
		"docker-compose.yml": composeShop,
		".env":               "API_TAG=1.0\n",
	}

	testProject(t, files, func(e *cli.Engine) {
		t.Setenv("API_TAG", "2.0")

		res, err := testExecute(e, "plan api", nil)
		require.NoError(t, err)
		require.Equal(t, 0, res.Code)
		res.RequireStderr(t, []string{""})
		res.RequireStdout(t, []string{
			"#  SERVICE  SOURCE                  DEPENDS",
			"1  db       postgres:13-alpine      ",
			"2  api      docker.io/shop/api:2.0  db",
		})
	})
}

func TestPlanSubset(t *testing.T) {
	files := map[string]string{
		"docker-compose.yml": composeShop,
		".env":               "API_TAG=1.0\n",
	}

	testProject(t, files, func(e *cli.Engine) {
		res, err := testExecute(e, "plan db", nil)
		require.NoError(t, err)
		require.Equal(t, 0, res.Code)
		res.RequireStderr(t, []string{""})
		res.RequireStdout(t, []string{
			"#  SERVICE  SOURCE              DEPENDS",
			"1  db       postgres:13-alpine  ",
		})

		res, err = testExecute(e, "plan 'w*'", nil)
		require.NoError(t, err)
		require.Equal(t, 0, res.Code)
		require.Equal(t, 4, res.StdoutLines())

		res, err = testExecute(e, "plan cache", nil)
		require.NoError(t, err)
		require.Equal(t, 1, res.Code)
		res.RequireStderr(t, []string{"ERROR: no such service: cache"})
		res.RequireStdout(t, []string{""})
	})
}

func TestPlanCycle(t *testing.T) {
	testProject(t, map[string]string{"docker-compose.yml": composeCycle}, func(e *cli.Engine) {
		res, err := testExecute(e, "plan", nil)
		require.NoError(t, err)
		require.Equal(t, 1, res.Code)
		res.RequireStderr(t, []string{"ERROR: dependency cycle: a -> b -> a"})
		res.RequireStdout(t, []string{""})
	})
}

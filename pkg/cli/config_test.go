package cli_test

import (
	"testing"

	"github.com/convox/topology/pkg/cli"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	compose := `services:
  web:
    image: ${TOPOLOGY_TEST_IMAGE:-nginx}
    environment:
      PORT: 8080
    ports:
      - "8080:8080"
    depends_on:
      - api
  api:
    build: ./api
`

	testProject(t, map[string]string{"docker-compose.yml": compose}, func(e *cli.Engine) {
		res, err := testExecute(e, "config", nil)
		require.NoError(t, err)
		require.Equal(t, 0, res.Code)
		res.RequireStderr(t, []string{""})
		res.RequireStdout(t, []string{
			"services:",
			"  web:",
			"    depends_on:",
			"    - api",
			"    environment:",
			"    - PORT=8080",
			"    image: nginx",
			"    ports:",
			"    - 8080:8080",
			"  api:",
			"    build: ./api",
		})
	})
}

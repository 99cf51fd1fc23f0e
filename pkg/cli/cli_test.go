package cli_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/convox/topology/pkg/cli"
	shellquote "github.com/kballard/go-shellquote"
	"github.com/stretchr/testify/require"
)

const composeShop = `services:
  web:
    build: ./web
    ports:
      - "3000:3000"
    depends_on:
      - api
    volumes:
      - ./web:/app
  api:
    image: ${REGISTRY:-docker.io}/shop/api:${API_TAG}
    ports:
      - "8080:8080"
      - "9090:9090/udp"
    links:
      - db:database
  db:
    image: postgres:13-alpine
    volumes:
      - pgdata:/var/lib/postgresql/data
      - /tmp

volumes:
  pgdata:
`

const composeCycle = `services:
  a:
    image: alpine
    depends_on: [b]
  b:
    image: alpine
    depends_on: [a]
`

type result struct {
	Code   int
	Stdout string
	Stderr string
}

func (r *result) RequireStderr(t *testing.T, lines []string) {
	t.Helper()
	require.Equal(t, lines, strings.Split(strings.TrimSuffix(r.Stderr, "\n"), "\n"))
}

func (r *result) RequireStdout(t *testing.T, lines []string) {
	t.Helper()
	require.Equal(t, lines, strings.Split(strings.TrimSuffix(r.Stdout, "\n"), "\n"))
}

func (r *result) StdoutLines() int {
	return len(strings.Split(strings.TrimSuffix(r.Stdout, "\n"), "\n"))
}

func (r *result) StdoutLine(line int) string {
	return strings.Split(r.Stdout, "\n")[line]
}

// testProject returns an engine rooted in a temporary directory holding files.
func testProject(t *testing.T, files map[string]string, fn func(*cli.Engine)) {
	t.Setenv("COMPOSE_FILE", "")

	dir := t.TempDir()

	for name, data := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0644)
		require.NoError(t, err)
	}

	e := cli.New("topology", "test")
	e.Dir = dir

	fn(e)
}

func testExecute(e *cli.Engine, cmd string, stdin io.Reader) (*result, error) {
	if stdin == nil {
		stdin = &bytes.Buffer{}
	}

	stdout := bytes.Buffer{}
	stderr := bytes.Buffer{}

	e.Reader.Reader = stdin

	e.Writer.Color = false
	e.Writer.Stdout = &stdout
	e.Writer.Stderr = &stderr

	cp, err := shellquote.Split(cmd)
	if err != nil {
		return nil, err
	}

	code := e.Execute(cp)

	res := &result{
		Code:   code,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	return res, nil
}

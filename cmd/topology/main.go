package main

import (
	"os"

	"github.com/convox/topology/pkg/cli"
)

var version = "dev"

func main() {
	c := cli.New("topology", version)

	os.Exit(c.Execute(os.Args[1:]))
}

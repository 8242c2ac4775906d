// Package main implements the worldos operator CLI. It works on the
// configured backing storage directly, without a running server.
package main

import (
	"os"

	"github.com/worldos/console/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.RootCmd(version).Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main provides the tradestate CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/tradestate/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}

// Package main provides the entry point for the sqlscript CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/sqlscript/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

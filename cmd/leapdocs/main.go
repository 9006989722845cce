// Package main provides the CLI for the leapdocs dbt docs compiler.
package main

import (
	"os"

	"github.com/leapstack-labs/leapdocs/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

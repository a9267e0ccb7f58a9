// Package main implements the planner command: the HTTP API server plus
// operator subcommands for migrations, users, imports and scheduling.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

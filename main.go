package main

import (
	"os"

	"housing-stats/cli"
	"housing-stats/config"
)

func main() {
	cmd := cli.NewRootCommand(config.Load())
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"skill-hire/cmd/jobctl/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"launch-dashboard/cmd/dashboard/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

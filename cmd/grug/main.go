package main

import (
	"os"

	"github.com/grug-lang/grug/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

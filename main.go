package main

import (
	"os"

	"github.com/insightdelivered/tally-statement-converter/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"keyfob/cmd/keyfob/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

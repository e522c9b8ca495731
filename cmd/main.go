package main

import (
	"os"

	"fruit-quality-bot/cmd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

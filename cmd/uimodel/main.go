package main

import (
	"os"

	"github.com/goliatone/go-uimodel/cmd/uimodel/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

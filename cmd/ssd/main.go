package main

import (
	"os"

	"github.com/settingsync/settingsync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main is the entry point for the deck CLI.
package main

import (
	"os"

	"github.com/donaldgifford/deck/cmd"
	"github.com/donaldgifford/deck/internal/ui"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cmd.SetVersionInfo(version, commit)

	if err := cmd.Execute(); err != nil {
		ui.NewWriter(false).Error(err.Error())
		os.Exit(1)
	}
}

// Package main is the entry point for the peertutor site.
package main

import (
	"os"

	"github.com/aussiebroadwan/peertutor/internal/peertutor/app"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = app.BuildVersion

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

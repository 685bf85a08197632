// fonts is the command line companion of plat-fonts: it inspects a theme's
// font catalog and produces (or posts) catalog submissions.
package main

import (
	"os"

	"github.com/joeblew999/plat-fonts/pkg/log"
)

var version = "v0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

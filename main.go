package main

import (
	"os"

	"github.com/fleetwatch/fleetwatch/cmd"
)

func main() {
	// Cobra has already reported the error.
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

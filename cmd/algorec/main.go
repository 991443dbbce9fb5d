// Package main is the entry point for the algorec command.
package main

import (
	"fmt"
	"os"

	"github.com/nexus-evo/algorec/cmd/algorec/app"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

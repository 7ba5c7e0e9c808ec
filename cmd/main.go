package main

// Entry point: runs the cobra command tree and maps errors to exit code 1

import (
	"fmt"
	"os"

	"synthetic-charts/cmd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

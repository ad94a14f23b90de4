// Package main is the entry point for the chillax CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

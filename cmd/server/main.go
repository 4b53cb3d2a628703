// Package main is the entry point for the photo comments service.
package main

import (
	"fmt"
	"os"

	"github.com/qolzam/telar/apps/photo-comments/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

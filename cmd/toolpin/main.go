// Package main is the entry point for the toolpin CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/toolpin/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}

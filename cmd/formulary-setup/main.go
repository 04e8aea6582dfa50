package main

import (
	"os"

	"github.com/astral1119/formulary-setup/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

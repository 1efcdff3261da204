package main

import (
	"os"

	"github.com/brainstein/loghound/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

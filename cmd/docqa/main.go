package main

import (
	"os"

	"github.com/veridian-labs/docqa/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

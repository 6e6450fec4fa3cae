package main

import (
	"os"

	"github.com/evdnx/goldcore/cmd/goldcore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/lumeui/lume-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

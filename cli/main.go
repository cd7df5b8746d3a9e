package main

import (
	"os"

	"github.com/bohemia111/RUNSTR-sub012/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/yanizio/localegate/cmd/canonctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

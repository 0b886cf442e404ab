package main

import (
	"os"

	"github.com/agiangrant/pressable/cmd/pressable/commands"
)

// Version is set at build time
var Version = "dev"

func main() {
	if err := commands.NewRootCmd(Version).Execute(); err != nil {
		os.Exit(1)
	}
}

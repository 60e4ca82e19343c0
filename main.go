package main

import (
	"os"

	"github.com/momentum-md/momentum/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

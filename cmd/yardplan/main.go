package main

import (
	"fmt"
	"os"

	"github.com/ahxxm/yardplan/cmd/yardplan/commands"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	if err := commands.Execute(version, commit, buildDate); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

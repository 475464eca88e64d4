package main

import (
	"fmt"
	"os"

	"github.com/goto/tidewatch/cmd"
)

func main() {
	command := cmd.New()
	if err := command.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

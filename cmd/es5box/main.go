package main

import (
	"os"

	"github.com/es5box/es5box/cmd/es5box/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/mlverse/torchexport/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

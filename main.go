package main

import (
	"os"

	"github.com/forem/forem-sub028/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

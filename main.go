package main

import (
	"os"

	"github.com/nbnam/cv-agent/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

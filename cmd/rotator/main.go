package main

import (
	"os"

	"github.com/rustyeddy/rotator/cmd/rotator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

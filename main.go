package main

import (
	"os"

	"github.com/media-organizer/go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

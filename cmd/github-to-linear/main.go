package main

import (
	"os"

	"github.com/endotakuya/github-to-linear/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/zmanna/rapid-math/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

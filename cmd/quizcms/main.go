package main

import (
	"os"

	"vmxio.com/cert-quiz/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

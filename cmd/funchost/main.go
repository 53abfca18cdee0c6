package main

import (
	"os"

	"github.com/Jayother24/firebase-functions/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/pjaos/chargeplan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

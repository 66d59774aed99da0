package main

import (
	"os"

	"github.com/tamzrod/faulttrace/cmd/faulttrace/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

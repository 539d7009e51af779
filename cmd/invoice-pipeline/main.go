package main

import (
	"os"

	"github.com/crestline-ap/invoice-exceptions/cmd/invoice-pipeline/cmd"
)

func main() {
	err := cmd.Execute()
	cmd.Logger().Sync()
	if err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/winslim/cmd/winslim"
)

func main() {
	rootCmd := winslim.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err)
		os.Exit(1)
	}
}

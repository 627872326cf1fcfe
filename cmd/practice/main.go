// Package main is the practice tool.
//
// Usage:
//
//	practice [flags]           run the terminal UI
//	practice click [flags]     headless metronome
//	practice config init|show  manage ~/.config/go-practice/config.yaml
package main

import (
	"fmt"
	"os"

	"go-practice/cmd/practice/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

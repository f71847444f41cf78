// ABOUTME: Entry point for the siria-admin CLI
// ABOUTME: Catalog administration for Siria Farma from the terminal

package main

import (
	"fmt"
	"os"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// Commands exit on their own; anything left is a flag or argument error
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}

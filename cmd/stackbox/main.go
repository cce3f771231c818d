// Package main provides the stackbox CLI, which builds the two printable
// parts of a stackable storage box.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "stackbox:", err)
		os.Exit(1)
	}
}

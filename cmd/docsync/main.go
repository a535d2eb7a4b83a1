package main

import (
	"fmt"
	"os"
)

// Exit codes: 0 clean, 1 fatal, 2 completed with recorded parse errors.
var exitCode int

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

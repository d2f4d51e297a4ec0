package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	Execute()
}

// Execute runs the root command against the process arguments and exits.
func Execute() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func fatal(w io.Writer, msg string, err error) int {
	fmt.Fprintf(w, "%s: %v\n", msg, err)
	return 1
}

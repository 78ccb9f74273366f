// Command techtree derives views of the tech tree, asks the assistant and
// serves the HTTP API from one binary.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		bad.Fprintf(os.Stderr, "techtree: %v\n", err)
		os.Exit(1)
	}
}

// Command voyago is the entry point for the Voyago travel assistant.
// It provides a CLI interface (via Cobra) and an optional HTTP server that
// exposes the retrieval pipeline as a JSON API.
package main

import (
	"fmt"
	"os"

	"github.com/voyago/voyago-go/cmd/voyago/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

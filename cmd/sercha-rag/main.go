// Command sercha-rag is a retrieval-augmented chat service over text,
// images, PDFs and YouTube transcripts.
package main

import (
	"os"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

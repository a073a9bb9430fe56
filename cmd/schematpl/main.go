// Command schematpl renders schemachange-templated SQL migration scripts.
package main

import (
	"os"

	"github.com/schematools/schemachange-templater/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

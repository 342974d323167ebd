package main

import (
	"os"

	"github.com/universal-changesets/changeset/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}

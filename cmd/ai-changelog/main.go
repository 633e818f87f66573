package main

import (
	"os"

	"github.com/ariel-frischer/ai-changelog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

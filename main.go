// main is the entry point for the devevent CLI.
package main

import (
	"github.com/huangsam/devevent/cmd"
	"github.com/huangsam/devevent/internal/contract"
)

func main() {
	err := cmd.Execute()
	if closeErr := cmd.Shutdown(); closeErr != nil {
		contract.LogWarn("Failed to close database connections", closeErr)
	}
	if err != nil {
		contract.LogFatal("Error", err)
	}
}

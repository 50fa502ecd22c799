// Package main is the entry point for the cwrap CLI tool.
package main

import (
	"github.com/cwrap/cwrap/internal/cmd"
)

func main() {
	cmd.Execute()
}

// Package main is the entry point for the pkgdb CLI tool.
package main

import (
	"github.com/hargabyte/pkgdb/internal/cmd"
)

func main() {
	cmd.Execute()
}

// Package main is the single-binary entrypoint for Spiral.
package main

import "github.com/spiral-app/spiral/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}

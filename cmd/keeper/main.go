// Package main provides the keeper CLI.
package main

import "github.com/mesh-intelligence/keeper/internal/cli"

func main() {
	cli.Execute()
}

/*
Package main provides the CLI entry point for alianzmail.
*/
package main

import (
	"context"
	"os"

	"github.com/dmitrymomot/alianzmail/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/techish-thoughts/blogsearch/internal/version"
)

// VersionCommand prints build metadata.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Println(version.Get().String())
			return nil
		},
	}
}

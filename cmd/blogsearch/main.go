package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/techish-thoughts/blogsearch/internal/config"
)

func main() {
	app := &cli.Command{
		Name:  "blogsearch",
		Usage: "Fuzzy search service for a static blog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env",
				Usage: "Configuration environment (selects config/<env>.yaml)",
				Value: config.GetEnv(),
			},
		},
		Commands: []*cli.Command{
			ServeCommand(),
			QueryCommand(),
			VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

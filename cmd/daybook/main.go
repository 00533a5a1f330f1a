package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "daybook",
		Usage: "Plain-text daily journal with tasks, notes, events, filters and dated follow-ups",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "~/.config/daybook/config.yaml",
				Value:       "~/.config/daybook/config.yaml",
				Sources:     cli.EnvVars("DAYBOOK_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "journal",
				Aliases: []string{"j"},
				Usage:   "Journal to use: global or project (default from config)",
				Sources: cli.EnvVars("DAYBOOK_JOURNAL"),
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "Treat this day as today (YYYY/MM/DD)",
			},
		},
		Commands: commands(),
		Action:   showDay,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Write a starter config and initialize the history store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// askCommand answers a single question from the command line.
func askCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "ask",
		Usage: "Ask the database a question in natural language",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "question",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
			&cli.BoolFlag{
				Name:  "sql",
				Usage: "Show the generated SQL",
			},
			&cli.BoolFlag{
				Name:  "table",
				Usage: "Show the result table under the answer",
				Value: true,
			},
			&cli.StringFlag{
				Name:  "csv",
				Usage: "Export results to CSV with this base path",
			},
			&cli.StringFlag{
				Name:    "markdown",
				Aliases: []string{"md"},
				Usage:   "Export the answer to a Markdown file",
			},
		},
		Action: r.Ask,
	}
}

// sqlCommand runs a raw read-only statement.
func sqlCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sql",
		Usage: "Run a read-only SQL statement and print the results",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "statement",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of rows to return",
				Value: 100,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.SQL,
	}
}

// schemaCommand prints the introspected schema.
func schemaCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the database schema given to the language model",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Schema,
	}
}

// historyCommand manages stored conversations.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"hist"},
		Usage:   "Browse and manage stored conversations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List conversations, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of conversations to return",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Filter by title substring",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show every exchange of one conversation",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "sql",
						Usage: "Show generated SQL with each exchange",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "clear",
				Usage: "Delete a conversation and its exchanges",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Delete every conversation",
					},
				},
				Action: r.HistoryClear,
			},
		},
	}
}

// chatCommand launches the interactive TUI.
func chatCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "chat",
		Aliases: []string{"tui"},
		Usage:   "Chat with the database interactively",
		Action:  r.Chat,
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/Princelohia9910/NotesApp/internal"
	pkgconfig "github.com/Princelohia9910/NotesApp/pkg/config"
)

func loadOptions(cmd *cli.Command) ([]internal.Option, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if db := cmd.String("db"); db != "" {
		cfg.SQLite.Path = db
	}

	return []internal.Option{
		internal.WithConfig(cfg),
	}, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, opts...)
}

func list(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.ListNotes(ctx, cmd.String("query"), opts...)
}

func add(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	content := cmd.String("content")
	if content == "" && cmd.Args().Len() > 0 {
		content = strings.Join(cmd.Args().Slice(), " ")
	}
	return internal.AddNote(ctx, cmd.String("title"), content, opts...)
}

func remove(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("rm: at least one note id is required")
	}
	ids := make([]int64, 0, cmd.Args().Len())
	for _, a := range cmd.Args().Slice() {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("rm: invalid note id %q", a)
		}
		ids = append(ids, id)
	}
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.RemoveNotes(ctx, ids, opts...)
}

func export(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.ExportNotes(ctx, cmd.Args().First(), opts...)
}

func importNotes(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.ImportNotes(ctx, cmd.Args().First(), opts...)
}

func main() {
	cmd := &cli.Command{
		Name:   "notes",
		Usage:  "Local single-user notes with a live HTTP API, SSE stream and MCP tools",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "Override the SQLite database path",
				Sources: cli.EnvVars("NOTES_DB"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve note tools over MCP stdio",
				Action: mcp,
			},
			{
				Name:   "list",
				Usage:  "Print notes, newest first",
				Action: list,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Only notes whose title or content contains this"},
				},
			},
			{
				Name:      "add",
				Usage:     "Save a new note and print its id",
				ArgsUsage: "[content...]",
				Action:    add,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Note title"},
					&cli.StringFlag{Name: "content", Aliases: []string{"b"}, Usage: "Note body"},
				},
			},
			{
				Name:      "rm",
				Usage:     "Delete notes by id",
				ArgsUsage: "<id>...",
				Action:    remove,
			},
			{
				Name:      "export",
				Usage:     "Write every note as Markdown into a directory",
				ArgsUsage: "[dir]",
				Action:    export,
			},
			{
				Name:      "import",
				Usage:     "Load Markdown notes from a directory",
				ArgsUsage: "[dir]",
				Action:    importNotes,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/urfave/cli/v3"

	"github.com/starford/daybook/internal"
	"github.com/starford/daybook/internal/events"
	"github.com/starford/daybook/internal/hints"
	"github.com/starford/daybook/internal/index"
	"github.com/starford/daybook/internal/journal"
	"github.com/starford/daybook/internal/mcpserver"
	"github.com/starford/daybook/internal/storage"
)

func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "show",
			Usage:     "Show a day with the entries due on it",
			ArgsUsage: "[date]",
			Action:    showDay,
		},
		{
			Name:      "add",
			Usage:     "Add an entry",
			ArgsUsage: "<text...>",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Value: "task", Usage: "task, done, note or event"},
				&cli.StringFlag{Name: "on", Usage: "Day to add to (default today)"},
			},
			Action: withApp(addEntry),
		},
		{
			Name:      "toggle",
			Usage:     "Toggle completion of a task",
			ArgsUsage: "<date> <index>",
			Action:    withApp(entryAction(func(a *app, i int, _ []string) error { return a.sess.ToggleEntry(i) })),
		},
		{
			Name:      "edit",
			Usage:     "Replace the text of an entry",
			ArgsUsage: "<date> <index> <text...>",
			Action: withApp(entryAction(func(a *app, i int, rest []string) error {
				if len(rest) == 0 {
					return fmt.Errorf("edit: missing text")
				}
				return a.sess.EditEntry(i, strings.Join(rest, " "))
			})),
		},
		{
			Name:      "cycle",
			Usage:     "Change an entry to the next type",
			ArgsUsage: "<date> <index>",
			Action:    withApp(entryAction(func(a *app, i int, _ []string) error { return a.sess.CycleEntryType(i) })),
		},
		{
			Name:      "delete",
			Usage:     "Delete an entry",
			ArgsUsage: "<date> <index>",
			Action:    withApp(entryAction(func(a *app, i int, _ []string) error { return a.sess.DeleteEntry(i) })),
		},
		{
			Name:      "exec",
			Usage:     "Run a command such as \"goto fri\" or \"sort\" and show the resulting day",
			ArgsUsage: "<command...>",
			Action:    withApp(execCommand),
		},
		{
			Name:      "filter",
			Usage:     "Find entries across the journal",
			ArgsUsage: "<query...>",
			Action:    withApp(filterEntries),
		},
		{
			Name:      "later",
			Usage:     "List entries from other days that are due on a day",
			ArgsUsage: "[date]",
			Action:    withApp(laterEntries),
		},
		{
			Name:      "search",
			Usage:     "Full-text search of entry content (needs the index)",
			ArgsUsage: "<text...>",
			Action:    withApp(searchEntries),
		},
		{
			Name:   "tags",
			Usage:  "List the tags used in the journal",
			Action: withApp(listTags),
		},
		{
			Name:  "tag",
			Usage: "Rename or delete a tag across the journal",
			Commands: []*cli.Command{
				{
					Name:      "rename",
					ArgsUsage: "<old> <new>",
					Action:    withApp(renameTag),
				},
				{
					Name:      "delete",
					ArgsUsage: "<tag>",
					Action:    withApp(deleteTag),
				},
			},
		},
		{
			Name:      "hints",
			Usage:     "Show completions for partial input",
			ArgsUsage: "<input...>",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "filter", Usage: "command, filter or entry"},
			},
			Action: withApp(showHints),
		},
		{
			Name:  "index",
			Usage: "Maintain the journal index",
			Commands: []*cli.Command{
				{
					Name:   "sync",
					Usage:  "Bring the index up to date with the journals",
					Action: syncIndex,
				},
			},
		},
		{
			Name:   "watch",
			Usage:  "Keep the index current while the journals change",
			Action: watch,
		},
		{
			Name:   "mcp",
			Usage:  "Serve journal tools over MCP on stdin/stdout",
			Action: withApp(serveMCP),
		},
	}
}

func showDay(ctx context.Context, cmd *cli.Command) error {
	return withApp(func(_ context.Context, cmd *cli.Command, a *app) error {
		day, err := a.resolveDay(cmd.Args().First())
		if err != nil {
			return err
		}
		if err := a.sess.Goto(day); err != nil {
			return err
		}
		return a.printCurrent()
	})(ctx, cmd)
}

func (a *app) printCurrent() error {
	laterEntries, err := a.sess.LaterEntries()
	if err != nil {
		return err
	}
	title, err := a.sess.Title()
	if err != nil {
		return err
	}
	if title != "" {
		_, _ = faintStyle.Fprintln(a.out, title)
	}
	printDay(a.out, a.sess.Date(), a.sess.Entries(), laterEntries)
	return nil
}

func addEntry(_ context.Context, cmd *cli.Command, a *app) error {
	text := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("add: missing text")
	}
	typ, ok := journal.ParseEntryType(cmd.String("type"))
	if !ok {
		return fmt.Errorf("add: unknown type %q", cmd.String("type"))
	}
	day, err := a.resolveDay(cmd.String("on"))
	if err != nil {
		return err
	}
	if err := a.sess.Goto(day); err != nil {
		return err
	}
	if _, err := a.sess.AddEntry(journal.Entry{Type: typ, Content: text}, -1); err != nil {
		return err
	}
	return a.printCurrent()
}

// entryAction parses "<date> <index> [rest...]", opens the day and runs fn.
func entryAction(fn func(a *app, i int, rest []string) error) func(context.Context, *cli.Command, *app) error {
	return func(_ context.Context, cmd *cli.Command, a *app) error {
		args := cmd.Args().Slice()
		if len(args) < 2 {
			return fmt.Errorf("%s: want <date> <index>", cmd.Name)
		}
		day, err := a.resolveDay(args[0])
		if err != nil {
			return err
		}
		i, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%s: index %q: %w", cmd.Name, args[1], err)
		}
		if err := a.sess.Goto(day); err != nil {
			return err
		}
		if err := fn(a, i, args[2:]); err != nil {
			return err
		}
		return a.printCurrent()
	}
}

func execCommand(_ context.Context, cmd *cli.Command, a *app) error {
	res, err := a.sess.Execute(strings.Join(cmd.Args().Slice(), " "))
	if err != nil {
		return err
	}
	if res.Quit {
		return nil
	}
	return a.printCurrent()
}

func filterEntries(_ context.Context, cmd *cli.Command, a *app) error {
	view, err := a.sess.Filter(strings.Join(cmd.Args().Slice(), " "))
	if err != nil {
		return err
	}
	if len(view.Spec.InvalidTokens) > 0 {
		warn("ignored: %s", strings.Join(view.Spec.InvalidTokens, " "))
	}
	printCrossDay(a.out, a.sess.Now(), view.Entries)
	return nil
}

func laterEntries(_ context.Context, cmd *cli.Command, a *app) error {
	day, err := a.resolveDay(cmd.Args().First())
	if err != nil {
		return err
	}
	if err := a.sess.Goto(day); err != nil {
		return err
	}
	entries, err := a.sess.LaterEntries()
	if err != nil {
		return err
	}
	printCrossDay(a.out, day, entries)
	return nil
}

func searchEntries(_ context.Context, cmd *cli.Command, a *app) error {
	if a.db == nil {
		return fmt.Errorf("search: index is not configured")
	}
	j := a.sess.Journal()
	if _, err := index.Sync(a.db, j, a.sess.Logger()); err != nil {
		return err
	}
	results, err := a.db.Search(j.Path(), strings.Join(cmd.Args().Slice(), " "), 50)
	if err != nil {
		return err
	}
	printCrossDay(a.out, a.sess.Now(), results)
	return nil
}

func listTags(_ context.Context, _ *cli.Command, a *app) error {
	if a.db != nil {
		j := a.sess.Journal()
		if _, err := index.Sync(a.db, j, a.sess.Logger()); err != nil {
			return err
		}
		counts, err := a.db.TagCounts(j.Path())
		if err != nil {
			return err
		}
		printTags(a.out, counts)
		return nil
	}
	names, err := a.sess.JournalTags()
	if err != nil {
		return err
	}
	counts := make([]index.TagCount, len(names))
	for i, n := range names {
		counts[i] = index.TagCount{Tag: n}
	}
	printTags(a.out, counts)
	return nil
}

func renameTag(_ context.Context, cmd *cli.Command, a *app) error {
	args := cmd.Args().Slice()
	if len(args) != 2 {
		return fmt.Errorf("tag rename: want <old> <new>")
	}
	n, err := a.sess.RenameTag(args[0], args[1])
	if err != nil {
		return err
	}
	if n == 0 {
		a.suggestTags(args[0])
	}
	_, _ = fmt.Fprintf(a.out, "renamed #%s to #%s in %d places\n", args[0], args[1], n)
	return nil
}

func deleteTag(_ context.Context, cmd *cli.Command, a *app) error {
	tag := cmd.Args().First()
	if tag == "" {
		return fmt.Errorf("tag delete: want <tag>")
	}
	n, err := a.sess.DeleteTag(tag)
	if err != nil {
		return err
	}
	if n == 0 {
		a.suggestTags(tag)
	}
	_, _ = fmt.Fprintf(a.out, "deleted #%s from %d places\n", tag, n)
	return nil
}

// suggestTags warns about an unknown tag and names the closest journal tags.
func (a *app) suggestTags(tag string) {
	known, err := a.sess.JournalTags()
	if err != nil {
		return
	}
	var names []string
	for _, m := range fuzzy.Find(strings.TrimPrefix(tag, "#"), known) {
		names = append(names, "#"+m.Str)
		if len(names) == 3 {
			break
		}
	}
	if len(names) == 0 {
		warn("no #%s in the journal", tag)
		return
	}
	warn("no #%s in the journal; did you mean %s?", tag, strings.Join(names, ", "))
}

func showHints(_ context.Context, cmd *cli.Command, a *app) error {
	mode, ok := hints.ParseMode(cmd.String("mode"))
	if !ok {
		return fmt.Errorf("hints: unknown mode %q", cmd.String("mode"))
	}
	printHints(a.out, a.sess.Hints(strings.Join(cmd.Args().Slice(), " "), mode))
	return nil
}

func syncIndex(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := internal.OpenIndex(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	logger := internal.NewLogger(cfg.App.LogLevel)
	for _, path := range []string{cfg.Journal.GlobalPath, cfg.Journal.ProjectPath} {
		if path == "" {
			continue
		}
		j, err := storage.OpenJournal(path)
		if err != nil {
			return err
		}
		changed, err := index.Sync(db, j, logger)
		if err != nil {
			return err
		}
		state := "unchanged"
		if changed {
			state = "synced"
		}
		_, _ = fmt.Fprintf(stdout, "%s %s\n", state, j.Path())
	}
	return nil
}

func watch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	broker := events.NewBroker()
	defer broker.Close()

	sub := broker.Subscribe()
	go func() {
		for ev := range sub {
			_, _ = fmt.Fprintf(stdout, "%s %s %s\n", ev.At.Format(time.TimeOnly), ev.Kind, ev.Journal)
		}
	}()

	if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithBroker(broker)); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}

func serveMCP(_ context.Context, _ *cli.Command, a *app) error {
	return mcpserver.New(a.sess, a.db).ServeStdio()
}

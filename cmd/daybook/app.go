package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/starford/daybook/internal"
	"github.com/starford/daybook/internal/apperr"
	"github.com/starford/daybook/internal/dates"
	"github.com/starford/daybook/internal/index"
	"github.com/starford/daybook/internal/session"
	pkgconfig "github.com/starford/daybook/pkg/config"
)

// stdout receives command output.
var stdout io.Writer = color.Output

// app is what every command needs: configuration, an open session and
// the index when one is configured.
type app struct {
	cfg  *internal.Config
	db   *index.DB
	sess *session.Session
	out  io.Writer
}

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOrDefault(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if j := cmd.String("journal"); j != "" {
		cfg.Journal.Active = j
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid journal: %w", err)
		}
	}
	return cfg, nil
}

func clock(cmd *cli.Command) (func() time.Time, error) {
	expr := cmd.String("date")
	if expr == "" {
		return time.Now, nil
	}
	d, ok := dates.Resolve(expr, time.Now(), dates.ContextInterface)
	if !ok {
		return nil, fmt.Errorf("--date %q: %w", expr, apperr.ErrInvalidDate)
	}
	return func() time.Time { return d }, nil
}

func openApp(cmd *cli.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	now, err := clock(cmd)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, out: stdout}

	opts := cfg.SessionOptions()
	opts.Clock = now
	opts.Logger = internal.NewLogger(cfg.App.LogLevel)
	if cfg.Index.Enabled() {
		db, err := internal.OpenIndex(cfg)
		if err != nil {
			opts.Logger.Warn("index unavailable, scanning the journal instead", slog.String("error", err.Error()))
		} else {
			a.db = db
			opts.Index = db
		}
	}

	jc, err := cfg.Journal.Context()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.sess, err = session.New(jc, opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// withApp wraps an action that needs an open app.
func withApp(fn func(ctx context.Context, cmd *cli.Command, a *app) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(ctx, cmd, a)
	}
}

// resolveDay parses a day argument relative to the session's today.
func (a *app) resolveDay(expr string) (time.Time, error) {
	if expr == "" {
		return a.sess.Now(), nil
	}
	d, ok := dates.Resolve(expr, a.sess.Now(), dates.ContextInterface)
	if !ok {
		return time.Time{}, fmt.Errorf("%q: %w", expr, apperr.ErrInvalidDate)
	}
	return d, nil
}

func warn(format string, args ...any) {
	_, _ = color.New(color.FgRed).Fprintf(os.Stderr, format+"\n", args...)
}

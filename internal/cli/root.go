// Package cli implements the arcano terminal client.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/randomtoy/arcano/internal/adapters/catalog"
	"github.com/randomtoy/arcano/internal/adapters/history"
	"github.com/randomtoy/arcano/internal/app"
	"github.com/randomtoy/arcano/internal/entropy"
)

// options holds the global flags shared by every subcommand.
type options struct {
	settingsPath string
	verbose      bool
	noColor      bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "arcano",
		Short: "Tarot readings in the terminal",
		Long: `Arcano draws tarot spreads from a 78-card deck, interprets them and keeps a
history of past readings.

Settings are read from $XDG_CONFIG_HOME/arcano/config.toml, created with
defaults on first use.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.settingsPath, "config", DefaultSettingsPath(), "Path to the settings file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug information to stderr")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newSpreadsCmd(opts),
		newReadCmd(opts),
		newHistoryCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

func (o *options) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// session is a fully wired service for one command invocation.
type session struct {
	settings Settings
	svc      *app.TarotService
	close    func() error
}

// open loads settings and wires the service. withHistory opens the database.
func (o *options) open(cmd *cobra.Command, withHistory bool) (*session, error) {
	settings, err := LoadSettings(o.settingsPath)
	if err != nil {
		return nil, err
	}
	logger := o.logger(cmd.ErrOrStderr())

	rng, err := entropy.New(entropy.Mode(settings.Entropy), logger)
	if err != nil {
		return nil, fmt.Errorf("entropy source: %w", err)
	}

	s := &session{settings: settings, close: func() error { return nil }}
	var svcOpts []app.Option
	if withHistory {
		if err := os.MkdirAll(filepath.Dir(settings.HistoryDB), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		store, err := history.Open(settings.HistoryDB)
		if err != nil {
			return nil, err
		}
		s.close = store.Close
		svcOpts = append(svcOpts, app.WithHistory(store))
	}
	s.svc = app.NewTarotService(catalog.NewEmbeddedStore(), rng, logger, svcOpts...)
	return s, nil
}

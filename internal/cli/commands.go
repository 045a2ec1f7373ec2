package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/randomtoy/arcano/internal/app"
)

func newSpreadsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "spreads",
		Short: "List the available spreads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.close()

			spreads, err := s.svc.ListSpreads(cmd.Context())
			if err != nil {
				return err
			}
			return writeSpreads(cmd.OutOrStdout(), spreads)
		},
	}
}

func newReadCmd(opts *options) *cobra.Command {
	var (
		question string
		format   string
		noSave   bool
	)
	cmd := &cobra.Command{
		Use:   "read [spread]",
		Short: "Draw and interpret a spread",
		Long: `Read draws one card per position of the spread, decides each card's
orientation and prints the interpretation. Without an argument the
default_spread from the settings file is used.

Examples:
  arcano read
  arcano read una_carta -q "¿Qué necesito saber hoy?"
  arcano read cruz_celta --format yaml --no-save`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd, !noSave)
			if err != nil {
				return err
			}
			defer s.close()

			spread := s.settings.DefaultSpread
			if len(args) == 1 {
				spread = args[0]
			}

			res, err := s.svc.PerformReading(cmd.Context(), app.ReadingRequest{
				Spread:   spread,
				Question: question,
				NoSave:   noSave,
			})
			if err != nil {
				return err
			}
			rec := res.Record
			if noSave {
				rec.ID = ""
			}
			return WriteRecord(cmd.OutOrStdout(), rec, format)
		},
	}
	cmd.Flags().StringVarP(&question, "question", "q", "", "Question to focus the reading on")
	cmd.Flags().StringVarP(&format, "format", "f", FormatText, "Output format: text, share, json or yaml")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not store the reading in the history")
	return cmd
}

func newHistoryCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse stored readings",
	}

	var limit int
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List stored readings, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd, true)
			if err != nil {
				return err
			}
			defer s.close()

			recs, err := s.svc.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No hay lecturas guardadas.")
				return nil
			}
			return writeHistory(cmd.OutOrStdout(), recs)
		},
	}
	ls.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of readings to list (0 for all)")

	var format string
	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show a stored reading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd, true)
			if err != nil {
				return err
			}
			defer s.close()

			rec, err := s.svc.GetRecord(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return WriteRecord(cmd.OutOrStdout(), rec, format)
		},
	}
	show.Flags().StringVarP(&format, "format", "f", FormatText, "Output format: text, share, json or yaml")

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a stored reading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd, true)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.svc.DeleteRecord(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lectura %s eliminada.\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(ls, show, rm)
	return cmd
}

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the settings file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the settings file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), opts.settingsPath)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := LoadSettings(opts.settingsPath)
			if err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(settings)
		},
	})
	return cmd
}

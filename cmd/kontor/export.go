package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"kontor/internal/log"
	"kontor/internal/sheets"
	"kontor/internal/sheets/memory"
)

var errExportNotConfigured = errors.New("export not configured: set GOOGLE_SPREADSHEET_ID")

type exportResult struct {
	Exported   int     `json:"exported" yaml:"exported"`
	Incomplete bool    `json:"incomplete" yaml:"incomplete"`
	Range      string  `json:"range,omitempty" yaml:"range,omitempty"`
	Rows       [][]any `json:"rows,omitempty" yaml:"rows,omitempty"`
}

func newExportCmd(a *app) *cobra.Command {
	var (
		f      filterFlags
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Append matching transactions to the configured spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var mem *memory.Store
			exp := a.backend.Exporter
			if dryRun {
				mem = memory.New(a.backend.MasterData.TagNames)
				exp = mem
			}
			if exp == nil {
				return errExportNotConfigured
			}

			p, err := f.params()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			res, err := a.backend.Transactions.GetMatchingTransactions(ctx, p)
			if err != nil {
				return err
			}
			// Tag names are best effort; ids are exported when they are missing.
			if err := a.backend.MasterData.GetTags(ctx, false); err != nil {
				a.logger.WarnContext(ctx, "Exporting tag ids, tag names unavailable", log.FieldError, err.Error())
			}

			rng, err := exp.Export(ctx, res.Transactions)
			if err != nil {
				return fmt.Errorf("export transactions: %w", err)
			}
			out := exportResult{Exported: len(res.Transactions), Incomplete: res.Incomplete, Range: rng}
			if mem != nil {
				out.Rows = append([][]any{sheets.Header}, mem.Rows()...)
			}
			return a.render(cmd.OutOrStdout(), out)
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the rows instead of writing them")
	return cmd
}

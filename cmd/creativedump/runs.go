package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"creativecatalog.ai/internal/persistence/indexdb"
)

func newRunsCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List conversion runs recorded in the SQLite index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return errors.New("--index is required")
			}
			idx, err := indexdb.OpenSQLite(path)
			if err != nil {
				return err
			}
			defer idx.Close()
			runs, err := idx.Runs(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tRECORDED_AT\tENTRIES\tRECORDS\tDIAGNOSTICS\tCAPTURE")
			for _, r := range runs {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n", r.ID, r.RecordedAt, r.Entries, r.Records, r.Diagnostics, r.CapturePath)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&path, "index", "", "SQLite index file")
	return cmd
}

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"creativecatalog.ai/internal/catalogs"
	"creativecatalog.ai/internal/config"
)

func newBlocksCommand() *cobra.Command {
	var (
		path string
		name string
	)

	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "List block states with their runtime ids and metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			blocks, digest, err := catalogs.LoadBlockStates(path)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUNTIME_ID\tNAME\tMETADATA")
			for _, s := range blocks.All() {
				if name != "" && s.Name != name {
					continue
				}
				fmt.Fprintf(tw, "%d\t%s\t%d\n", s.RuntimeID, s.Name, s.Metadata)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d block states, sha256 %s\n", blocks.Len(), digest)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "block-states", config.Defaults().Inputs.BlockStates, "block-state descriptor file")
	cmd.Flags().StringVar(&name, "name", "", "only list states with this block name")
	return cmd
}

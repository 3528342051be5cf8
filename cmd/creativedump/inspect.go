package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"creativecatalog.ai/internal/config"
	"creativecatalog.ai/internal/nbt"
	"creativecatalog.ai/internal/persistence/blob"
	"creativecatalog.ai/internal/protocol"
)

func newInspectCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print one summary line per entry of a capture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := blob.ReadFile(path)
			if err != nil {
				return err
			}
			c, err := protocol.DecodeCreativeContent(raw)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "packet 0x%x, %d entries\n", c.PacketID, len(c.Entries))
			for i, e := range c.Entries {
				if e.Empty {
					fmt.Fprintf(out, "%4d empty\n", i)
					continue
				}
				fmt.Fprintf(out, "%4d network_id=%d count=%d metadata=%d block_runtime_id=%d", i, e.NetworkID, e.Count, e.Metadata, e.BlockRuntimeID)
				if e.HasTree {
					kind := nbt.TagEnd
					if e.Tree.Value != nil {
						kind = e.Tree.Value.Kind()
					}
					fmt.Fprintf(out, " tree=%s schema=%d", kind, e.SchemaVersion)
				}
				if len(e.Extension) > 0 {
					fmt.Fprintf(out, " extension=%dB", len(e.Extension))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "capture", config.Defaults().Inputs.Capture, "captured creative content packet")
	return cmd
}

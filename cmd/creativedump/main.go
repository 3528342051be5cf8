package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "creativedump",
		Short: "Convert creative content captures into creative item records",
		Long: `creativedump decodes a captured creative content packet and resolves every
item against the block-state and item-state catalogs, producing the creative
inventory as JSON.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newBlocksCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newRunsCommand())
	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

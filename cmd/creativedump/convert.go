package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"creativecatalog.ai/internal/config"
	"creativecatalog.ai/internal/convert"
	"creativecatalog.ai/internal/observability"
)

func newConvertCommand() *cobra.Command {
	var (
		configPath string
		flags      config.Config
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Write the creative item records for a capture",
		Long: `Loads the block-state and item-state catalogs, decodes the capture and
writes the records file. An optional SQLite index and a compressed JSONL
diagnostics log are written when their paths are set. Nothing is left on disk
if any step fails.

Block-state descriptors must be grouped by block name: a name that reappears
after a different one is rejected, because its metadata ordinals would
collide with the earlier run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Defaults()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}
			applyOverrides(cmd, &cfg, flags)
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := observability.NewLogger(cmd.ErrOrStderr(), "creativedump", cfg.Log.Level)
			if err != nil {
				return err
			}
			res, err := convert.Run(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d entries, %d records, %d diagnostics -> %s\n",
				res.Entries, len(res.Records), len(res.Diagnostics), cfg.Outputs.Records)
			return nil
		},
	}

	def := config.Defaults()
	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "YAML run configuration")
	f.StringVar(&flags.Inputs.BlockStates, "block-states", def.Inputs.BlockStates, "block-state descriptor file")
	f.StringVar(&flags.Inputs.ItemStates, "item-states", def.Inputs.ItemStates, "item-state descriptor file")
	f.StringVar(&flags.Inputs.Capture, "capture", def.Inputs.Capture, "captured creative content packet")
	f.StringVar(&flags.Outputs.Records, "out", def.Outputs.Records, "records output file (.zst compresses)")
	f.StringVar(&flags.Outputs.Index, "index", "", "SQLite index file")
	f.StringVar(&flags.Outputs.Diagnostics, "diagnostics", "", "diagnostics JSONL file (zstd)")
	f.Int32Var(&flags.BlockItemLimit, "block-item-limit", def.BlockItemLimit, "first network id not backed by a block")
	f.StringVar(&flags.Log.Level, "log-level", def.Log.Level, "log level")
	return cmd
}

// applyOverrides copies explicitly set flags over cfg.
func applyOverrides(cmd *cobra.Command, cfg *config.Config, flags config.Config) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("block-states", &cfg.Inputs.BlockStates, flags.Inputs.BlockStates)
	set("item-states", &cfg.Inputs.ItemStates, flags.Inputs.ItemStates)
	set("capture", &cfg.Inputs.Capture, flags.Inputs.Capture)
	set("out", &cfg.Outputs.Records, flags.Outputs.Records)
	set("index", &cfg.Outputs.Index, flags.Outputs.Index)
	set("diagnostics", &cfg.Outputs.Diagnostics, flags.Outputs.Diagnostics)
	set("log-level", &cfg.Log.Level, flags.Log.Level)
	if cmd.Flags().Changed("block-item-limit") {
		cfg.BlockItemLimit = flags.BlockItemLimit
	}
}

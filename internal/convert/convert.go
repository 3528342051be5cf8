// Package convert runs a whole capture-to-records conversion.
package convert

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"creativecatalog.ai/internal/catalogs"
	"creativecatalog.ai/internal/config"
	"creativecatalog.ai/internal/creative"
	"creativecatalog.ai/internal/persistence/blob"
	"creativecatalog.ai/internal/persistence/indexdb"
	dlog "creativecatalog.ai/internal/persistence/log"
	"creativecatalog.ai/internal/persistence/output"
	"creativecatalog.ai/internal/protocol"
)

type Result struct {
	Entries     int
	Records     []creative.Record
	Diagnostics []creative.Diagnostic
	RunID       int64
}

// Run loads both catalogs and the capture, decodes and assembles the records,
// then writes the configured outputs. When any step fails, no records or
// diagnostics file is left behind.
func Run(ctx context.Context, cfg config.Config, log zerolog.Logger) (Result, error) {
	var res Result
	if err := cfg.Validate(); err != nil {
		return res, err
	}

	cats, err := catalogs.Load(cfg.Inputs.BlockStates, cfg.Inputs.ItemStates)
	if err != nil {
		return res, fmt.Errorf("load catalogs: %w", err)
	}
	log.Info().
		Int("block_states", cats.Blocks.Len()).
		Str("block_states_digest", cats.BlocksDigest).
		Int("item_states", cats.Items.Len()).
		Str("item_states_digest", cats.ItemsDigest).
		Msg("catalogs loaded")

	raw, err := blob.ReadFile(cfg.Inputs.Capture)
	if err != nil {
		return res, fmt.Errorf("read capture: %w", err)
	}
	content, err := protocol.DecodeCreativeContent(raw)
	if err != nil {
		return res, fmt.Errorf("decode %s: %w", cfg.Inputs.Capture, err)
	}
	res.Entries = len(content.Entries)
	log.Debug().Uint32("packet_id", content.PacketID).Int("entries", res.Entries).Msg("capture decoded")

	reporter := creative.ReporterFunc(func(d creative.Diagnostic) {
		res.Diagnostics = append(res.Diagnostics, d)
		log.Warn().
			Str("kind", string(d.Kind)).
			Int("index", d.Index).
			Int32("network_id", d.NetworkID).
			Str("name", d.Name).
			Int32("block_runtime_id", d.BlockRuntimeID).
			Msg("generic item carries a block runtime id")
	})
	asm := creative.NewAssembler(cats.Blocks, cats.Items,
		creative.WithBlockItemLimit(cfg.BlockItemLimit),
		creative.WithReporter(reporter),
	)
	res.Records, err = asm.Assemble(content.Entries)
	if err != nil {
		return res, fmt.Errorf("assemble: %w", err)
	}

	// Files written so far are removed again if a later output fails.
	var written []string
	fail := func(err error) (Result, error) {
		for _, p := range written {
			if rmErr := os.Remove(p); rmErr != nil && !os.IsNotExist(rmErr) {
				log.Warn().Err(rmErr).Str("path", p).Msg("remove partial output")
			}
		}
		return res, err
	}

	if err := output.WriteRecords(cfg.Outputs.Records, res.Records); err != nil {
		return res, err
	}
	written = append(written, cfg.Outputs.Records)

	if cfg.Outputs.Diagnostics != "" && len(res.Diagnostics) > 0 {
		written = append(written, cfg.Outputs.Diagnostics)
		if err := writeDiagnostics(cfg.Outputs.Diagnostics, res.Diagnostics); err != nil {
			return fail(err)
		}
	}

	if cfg.Outputs.Index != "" {
		sum := sha256.Sum256(raw)
		run := indexdb.Run{
			CapturePath:   cfg.Inputs.Capture,
			CaptureDigest: hex.EncodeToString(sum[:]),
			BlocksDigest:  cats.BlocksDigest,
			ItemsDigest:   cats.ItemsDigest,
			Entries:       res.Entries,
			Diagnostics:   len(res.Diagnostics),
		}
		if _, statErr := os.Stat(cfg.Outputs.Index); os.IsNotExist(statErr) {
			written = append(written, cfg.Outputs.Index, cfg.Outputs.Index+"-wal", cfg.Outputs.Index+"-shm")
		}
		if res.RunID, err = recordRun(ctx, cfg.Outputs.Index, run, res.Records); err != nil {
			return fail(err)
		}
		log.Info().Int64("run_id", res.RunID).Str("path", cfg.Outputs.Index).Msg("run indexed")
	}

	log.Info().Int("entries", res.Entries).Int("records", len(res.Records)).Str("path", cfg.Outputs.Records).Msg("records written")
	return res, nil
}

func writeDiagnostics(path string, diags []creative.Diagnostic) error {
	l := dlog.NewDiagnosticLogger(path)
	for _, d := range diags {
		l.Report(d)
	}
	return l.Close()
}

func recordRun(ctx context.Context, path string, run indexdb.Run, records []creative.Record) (int64, error) {
	idx, err := indexdb.OpenSQLite(path)
	if err != nil {
		return 0, fmt.Errorf("open index: %w", err)
	}
	defer idx.Close()
	id, err := idx.RecordRun(ctx, run, records)
	if err != nil {
		return 0, fmt.Errorf("index run: %w", err)
	}
	return id, nil
}

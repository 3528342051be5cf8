package convert

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"creativecatalog.ai/internal/config"
	"creativecatalog.ai/internal/creative"
	"creativecatalog.ai/internal/nbt"
	"creativecatalog.ai/internal/persistence/blob"
	"creativecatalog.ai/internal/persistence/indexdb"
	dlog "creativecatalog.ai/internal/persistence/log"
	"creativecatalog.ai/internal/persistence/output"
	"creativecatalog.ai/internal/protocol"
	"creativecatalog.ai/internal/wire"
)

func writeFixtures(t *testing.T, dir string) config.Config {
	t.Helper()
	desc := func(name string) nbt.Tag {
		return nbt.NewCompound().Set("name", nbt.String(name)).Set("states", nbt.NewCompound())
	}
	blocks, err := nbt.Marshal(nbt.Root{Value: nbt.NewList(nbt.TagCompound,
		desc("minecraft:air"), desc("minecraft:dirt"), desc("minecraft:dirt"),
	)}, nbt.VarIntPrefixed)
	if err != nil {
		t.Fatalf("marshal blocks: %v", err)
	}
	cfg := config.Defaults()
	cfg.Inputs.BlockStates = filepath.Join(dir, "block_states.nbt")
	cfg.Inputs.ItemStates = filepath.Join(dir, "item_states.json")
	cfg.Inputs.Capture = filepath.Join(dir, "creative_content.pk.zst")
	cfg.Outputs.Records = filepath.Join(dir, "out", "creative_items.json")

	if err := blob.WriteFile(cfg.Inputs.BlockStates, blocks); err != nil {
		t.Fatalf("write blocks: %v", err)
	}
	items := `[{"name":"minecraft:dirt","runtime_id":5},{"name":"minecraft:apple","runtime_id":300}]`
	if err := os.WriteFile(cfg.Inputs.ItemStates, []byte(items), 0o644); err != nil {
		t.Fatalf("write items: %v", err)
	}
	capture, err := protocol.EncodeCreativeContent(protocol.CreativeContent{PacketID: 0x91, Entries: []protocol.ItemEntry{
		{Empty: true},
		{NetworkID: 5, Count: 1, BlockRuntimeID: 2},
		{NetworkID: 5, Count: 1, Metadata: 2, HasTree: true, SchemaVersion: 1,
			Tree: nbt.Root{Value: nbt.NewCompound().Set("val", nbt.Int(7))}},
		{NetworkID: 300, Count: 1, BlockRuntimeID: 12},
	}})
	if err != nil {
		t.Fatalf("encode capture: %v", err)
	}
	if err := blob.WriteFile(cfg.Inputs.Capture, capture); err != nil {
		t.Fatalf("write capture: %v", err)
	}
	return cfg
}

func TestRun_WritesAllOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFixtures(t, dir)
	cfg.Outputs.Index = filepath.Join(dir, "out", "index.db")
	cfg.Outputs.Diagnostics = filepath.Join(dir, "out", "diagnostics.jsonl.zst")
	ctx := context.Background()

	res, err := Run(ctx, cfg, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Entries != 4 || len(res.Records) != 3 || len(res.Diagnostics) != 1 || res.RunID == 0 {
		t.Fatalf("result: entries=%d records=%d diags=%d run=%d", res.Entries, len(res.Records), len(res.Diagnostics), res.RunID)
	}

	recs, err := output.ReadRecords(cfg.Outputs.Records)
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("written records=%d", len(recs))
	}
	if *recs[0].BlockStateName != "minecraft:dirt" || *recs[0].BlockStateMetadata != 1 {
		t.Fatalf("first record: %+v", recs[0])
	}
	if recs[2].Name != "minecraft:apple" || recs[2].BlockStateName != nil {
		t.Fatalf("third record: %+v", recs[2])
	}

	var diags []creative.Diagnostic
	if err := dlog.ReadJSONLZstd(cfg.Outputs.Diagnostics, func(line []byte) error {
		var d creative.Diagnostic
		if err := json.Unmarshal(line, &d); err != nil {
			return err
		}
		diags = append(diags, d)
		return nil
	}); err != nil {
		t.Fatalf("read diagnostics: %v", err)
	}
	if len(diags) != 1 || diags[0].Index != 3 || diags[0].BlockRuntimeID != 12 {
		t.Fatalf("diagnostics: %+v", diags)
	}

	idx, err := indexdb.OpenSQLite(cfg.Outputs.Index)
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	defer idx.Close()
	indexed, err := idx.RecordsForRun(ctx, res.RunID)
	if err != nil {
		t.Fatalf("RecordsForRun: %v", err)
	}
	if len(indexed) != 3 || indexed[1].Metadata == nil || *indexed[1].Metadata != 2 {
		t.Fatalf("indexed: %+v", indexed)
	}
}

func TestRun_DecodeFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFixtures(t, dir)
	cfg.Outputs.Index = filepath.Join(dir, "out", "index.db")

	raw, err := blob.ReadFile(cfg.Inputs.Capture)
	if err != nil {
		t.Fatalf("read capture: %v", err)
	}
	if err := blob.WriteFile(cfg.Inputs.Capture, raw[:len(raw)-3]); err != nil {
		t.Fatalf("truncate capture: %v", err)
	}

	_, err = Run(context.Background(), cfg, zerolog.New(io.Discard))
	if !errors.Is(err, wire.ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out")); !os.IsNotExist(err) {
		t.Fatalf("output directory created on failure: %v", err)
	}
}

func TestRun_IndexFailureRemovesOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFixtures(t, dir)
	blocker := filepath.Join(dir, "notadir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	cfg.Outputs.Index = filepath.Join(blocker, "index.db")
	cfg.Outputs.Diagnostics = filepath.Join(dir, "out", "diagnostics.jsonl.zst")

	if _, err := Run(context.Background(), cfg, zerolog.New(io.Discard)); err == nil {
		t.Fatalf("expected index error")
	}
	for _, p := range []string{cfg.Outputs.Records, cfg.Outputs.Diagnostics} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("%s left behind after failed run: %v", filepath.Base(p), err)
		}
	}
}

func TestRun_DiagnosticsFailureRemovesRecords(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFixtures(t, dir)
	blocker := filepath.Join(dir, "notadir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	cfg.Outputs.Diagnostics = filepath.Join(blocker, "diagnostics.jsonl.zst")

	if _, err := Run(context.Background(), cfg, zerolog.New(io.Discard)); err == nil {
		t.Fatalf("expected diagnostics error")
	}
	if _, err := os.Stat(cfg.Outputs.Records); !os.IsNotExist(err) {
		t.Fatalf("records file left behind after failed run: %v", err)
	}
}

func TestRun_MissingCatalog(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFixtures(t, dir)
	cfg.Inputs.ItemStates = filepath.Join(dir, "missing.json")
	if _, err := Run(context.Background(), cfg, zerolog.New(io.Discard)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

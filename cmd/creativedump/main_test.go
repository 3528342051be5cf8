package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"creativecatalog.ai/internal/nbt"
	"creativecatalog.ai/internal/persistence/blob"
	"creativecatalog.ai/internal/persistence/output"
	"creativecatalog.ai/internal/protocol"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeInputs(t *testing.T, dir string) {
	t.Helper()
	desc := func(name string) nbt.Tag { return nbt.NewCompound().Set("name", nbt.String(name)) }
	blocks, err := nbt.Marshal(nbt.Root{Value: nbt.NewList(nbt.TagCompound,
		desc("minecraft:air"), desc("minecraft:stone"), desc("minecraft:stone"),
	)}, nbt.VarIntPrefixed)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := blob.WriteFile(filepath.Join(dir, "block_states.nbt"), blocks); err != nil {
		t.Fatalf("write blocks: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "item_states.json"), []byte(`[{"name":"minecraft:stone","runtime_id":1}]`), 0o644); err != nil {
		t.Fatalf("write items: %v", err)
	}
	capture, err := protocol.EncodeCreativeContent(protocol.CreativeContent{PacketID: 0x91, Entries: []protocol.ItemEntry{
		{NetworkID: 1, Count: 1, BlockRuntimeID: 2},
		{Empty: true},
		{NetworkID: 1, Count: 1, Metadata: 3, HasTree: true, Tree: nbt.Root{Value: nbt.NewCompound()}},
	}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := blob.WriteFile(filepath.Join(dir, "creative_content.pk"), capture); err != nil {
		t.Fatalf("write capture: %v", err)
	}
}

func TestConvertCommand_ConfigAndFlags(t *testing.T) {
	dir := t.TempDir()
	writeInputs(t, dir)
	cfgPath := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(cfgPath, []byte("outputs:\n  records: ignored.json\nlog:\n  level: error\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	outPath := filepath.Join(dir, "out", "items.json")

	stdout, err := execute(t, "convert", "--config", cfgPath, "--out", outPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(stdout, "3 entries, 2 records, 0 diagnostics") {
		t.Fatalf("stdout: %q", stdout)
	}
	recs, err := output.ReadRecords(outPath)
	if err != nil {
		t.Fatalf("read records: %v", err)
	}
	if len(recs) != 2 || *recs[0].BlockStateName != "minecraft:stone" || *recs[0].BlockStateMetadata != 1 {
		t.Fatalf("records: %+v", recs)
	}
	if _, err := os.Stat(filepath.Join(dir, "ignored.json")); !os.IsNotExist(err) {
		t.Fatalf("config records path used despite --out: %v", err)
	}
}

func TestBlocksCommand(t *testing.T) {
	dir := t.TempDir()
	writeInputs(t, dir)
	stdout, err := execute(t, "blocks", "--block-states", filepath.Join(dir, "block_states.nbt"), "--name", "minecraft:stone")
	if err != nil {
		t.Fatalf("blocks: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines: %q", lines)
	}
	if f := strings.Fields(lines[2]); len(f) != 3 || f[0] != "2" || f[1] != "minecraft:stone" || f[2] != "1" {
		t.Fatalf("last row: %q", lines[2])
	}
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	writeInputs(t, dir)
	stdout, err := execute(t, "inspect", "--capture", filepath.Join(dir, "creative_content.pk"))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"packet 0x91, 3 entries", "   1 empty", "metadata=3", "tree=TAG_Compound"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("missing %q in:\n%s", want, stdout)
		}
	}
}

func TestRunsCommand(t *testing.T) {
	dir := t.TempDir()
	writeInputs(t, dir)
	index := filepath.Join(dir, "index.db")
	capture := filepath.Join(dir, "creative_content.pk")
	if _, err := execute(t, "convert",
		"--block-states", filepath.Join(dir, "block_states.nbt"),
		"--item-states", filepath.Join(dir, "item_states.json"),
		"--capture", capture,
		"--out", filepath.Join(dir, "items.json"),
		"--index", index,
		"--log-level", "error",
	); err != nil {
		t.Fatalf("convert: %v", err)
	}

	stdout, err := execute(t, "runs", "--index", index)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines: %q", lines)
	}
	f := strings.Fields(lines[1])
	if len(f) != 6 || f[0] != "1" || f[2] != "3" || f[3] != "2" || f[4] != "0" || f[5] != capture {
		t.Fatalf("run row: %q", lines[1])
	}

	if _, err := execute(t, "runs"); err == nil {
		t.Fatalf("expected error without --index")
	}
}

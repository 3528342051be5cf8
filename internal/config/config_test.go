package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	c := Defaults()
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if c.BlockItemLimit != 256 || c.Inputs.BlockStates != "block_states.nbt" || c.Outputs.Records != "creative_items.json" {
		t.Fatalf("defaults: %+v", c)
	}
	if c.Outputs.Index != "" || c.Outputs.Diagnostics != "" {
		t.Fatalf("optional outputs enabled by default: %+v", c.Outputs)
	}
}

func TestLoad_OverridesAndResolves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	doc := `
inputs:
  capture: captures/creative.pk.zst
outputs:
  index: /var/tmp/index.db
block_item_limit: 512
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Inputs.Capture != filepath.Join(dir, "captures", "creative.pk.zst") {
		t.Fatalf("capture=%q", c.Inputs.Capture)
	}
	if c.Inputs.BlockStates != filepath.Join(dir, "block_states.nbt") {
		t.Fatalf("block_states default not resolved: %q", c.Inputs.BlockStates)
	}
	if c.Outputs.Index != "/var/tmp/index.db" {
		t.Fatalf("absolute path changed: %q", c.Outputs.Index)
	}
	if c.Outputs.Diagnostics != "" {
		t.Fatalf("empty path resolved: %q", c.Outputs.Diagnostics)
	}
	if c.BlockItemLimit != 512 || c.Log.Level != "debug" {
		t.Fatalf("config: %+v", c)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(path, []byte("block_item_limit: 0\noutputs:\n  records: \"\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "block_item_limit") || !strings.Contains(err.Error(), "outputs.records") {
		t.Fatalf("error does not name both fields: %v", err)
	}

	if err := os.WriteFile(path, []byte("inputs: [1, 2"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected yaml error")
	}
}

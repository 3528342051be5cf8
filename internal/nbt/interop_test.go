package nbt_test

import (
	"bytes"
	"testing"

	gtnbt "github.com/sandertv/gophertunnel/minecraft/nbt"

	"creativecatalog.ai/internal/nbt"
)

// Fixed16Prefixed trees must be readable by an independent little-endian
// implementation.
func TestFixed16_ReadableByGophertunnel(t *testing.T) {
	root := nbt.Root{Value: nbt.NewCompound().
		Set("val", nbt.Int(7)).
		Set("display", nbt.NewCompound().Set("Name", nbt.String("Fancy"))).
		Set("ench", nbt.NewList(nbt.TagShort, nbt.Short(1), nbt.Short(2))).
		Set("raw", nbt.ByteArray{1, 2, 3})}

	b, err := nbt.Marshal(root, nbt.Fixed16Prefixed)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := gtnbt.NewDecoderWithEncoding(bytes.NewBuffer(b), gtnbt.LittleEndian).Decode(&m); err != nil {
		t.Fatalf("gophertunnel decode: %v", err)
	}
	if v, ok := m["val"].(int32); !ok || v != 7 {
		t.Fatalf("val=%#v", m["val"])
	}
	display, ok := m["display"].(map[string]any)
	if !ok || display["Name"] != "Fancy" {
		t.Fatalf("display=%#v", m["display"])
	}
	if m["raw"] == nil {
		t.Fatalf("raw missing: %#v", m)
	}
}

func TestFixed16_ReadsGophertunnelOutput(t *testing.T) {
	b, err := gtnbt.MarshalEncoding(map[string]any{"val": int32(7)}, gtnbt.LittleEndian)
	if err != nil {
		t.Fatalf("gophertunnel marshal: %v", err)
	}
	root, err := nbt.Unmarshal(b, nbt.Fixed16Prefixed)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := nbt.NewCompound().Set("val", nbt.Int(7))
	if !nbt.Equal(root.Value, want) {
		t.Fatalf("mismatch: %#v", root.Value)
	}
}

package protocol

import (
	"encoding/binary"
	"fmt"

	"creativecatalog.ai/internal/nbt"
	"creativecatalog.ai/internal/wire"
)

// TreeMarker in the first two bytes of an item's extra data announces a
// schema version byte followed by a tagged tree.
const TreeMarker uint16 = 0xffff

// CreativeContent is a decoded creative content packet.
type CreativeContent struct {
	PacketID uint32
	Entries  []ItemEntry
}

// ItemEntry is one creative inventory slot. When Empty is set only LegacyID
// and NetworkID were read from the wire.
type ItemEntry struct {
	LegacyID  uint32
	NetworkID int32
	Empty     bool

	Count          uint16
	Metadata       uint32
	BlockRuntimeID int32

	HasTree       bool
	SchemaVersion uint8
	Tree          nbt.Root

	// Extension holds the extra-data bytes that follow the tree (or the
	// whole extra data after a non-tree marker). They are reserved for the
	// can-place-on and can-break lists and are kept verbatim, never parsed.
	Extension []byte
}

// DecodeCreativeContent decodes a whole packet. Any bounds, varint or tree
// error aborts the decode and no entries are returned.
func DecodeCreativeContent(b []byte) (CreativeContent, error) {
	r := wire.NewReader(b)
	packetID, _, err := wire.ReadVarUint32(r)
	if err != nil {
		return CreativeContent{}, fmt.Errorf("packet id: %w", err)
	}
	count, _, err := wire.ReadVarUint32(r)
	if err != nil {
		return CreativeContent{}, fmt.Errorf("entry count: %w", err)
	}
	// Every entry is at least two bytes, which caps the preallocation.
	capHint := int(count)
	if limit := r.Remaining() / 2; capHint > limit {
		capHint = limit
	}
	out := CreativeContent{PacketID: packetID, Entries: make([]ItemEntry, 0, capHint)}
	for i := uint32(0); i < count; i++ {
		e, err := readItemEntry(r)
		if err != nil {
			return CreativeContent{}, fmt.Errorf("entry %d/%d: %w", i, count, err)
		}
		out.Entries = append(out.Entries, e)
	}
	return out, nil
}

func readItemEntry(r *wire.Reader) (ItemEntry, error) {
	var e ItemEntry
	var err error
	if e.LegacyID, _, err = wire.ReadVarUint32(r); err != nil {
		return e, err
	}
	if e.NetworkID, _, err = wire.ReadVarInt32(r); err != nil {
		return e, err
	}
	if e.NetworkID == 0 {
		e.Empty = true
		return e, nil
	}
	if e.Count, err = r.ReadUint16(binary.LittleEndian); err != nil {
		return e, err
	}
	if e.Metadata, _, err = wire.ReadVarUint32(r); err != nil {
		return e, err
	}
	if e.BlockRuntimeID, _, err = wire.ReadVarInt32(r); err != nil {
		return e, err
	}
	auxLen, _, err := wire.ReadVarUint32(r)
	if err != nil {
		return e, err
	}
	if uint64(auxLen) > uint64(r.Remaining()) {
		return e, fmt.Errorf("%w: extra data of %d bytes at offset %d, have %d", wire.ErrOutOfBounds, auxLen, r.Pos(), r.Remaining())
	}
	aux, err := r.Sub(int(auxLen))
	if err != nil {
		return e, err
	}
	if err := readExtraData(aux, &e); err != nil {
		return e, fmt.Errorf("extra data: %w", err)
	}
	return e, nil
}

func readExtraData(aux *wire.Reader, e *ItemEntry) error {
	marker, err := aux.ReadUint16(binary.LittleEndian)
	if err != nil {
		return err
	}
	if marker == TreeMarker {
		if e.SchemaVersion, err = aux.ReadUint8(); err != nil {
			return err
		}
		if e.Tree, err = nbt.ReadRoot(aux, nbt.Fixed16Prefixed); err != nil {
			return err
		}
		e.HasTree = true
	}
	if rest := aux.Rest(); len(rest) > 0 {
		e.Extension = append([]byte(nil), rest...)
	}
	return nil
}

// EncodeCreativeContent writes c in the format DecodeCreativeContent reads.
func EncodeCreativeContent(c CreativeContent) ([]byte, error) {
	w := wire.NewWriter(256)
	w.WriteVarUint32(c.PacketID)
	w.WriteVarUint32(uint32(len(c.Entries)))
	for i, e := range c.Entries {
		w.WriteVarUint32(e.LegacyID)
		if e.Empty || e.NetworkID == 0 {
			w.WriteVarInt32(0)
			continue
		}
		w.WriteVarInt32(e.NetworkID)
		w.WriteUint16(binary.LittleEndian, e.Count)
		w.WriteVarUint32(e.Metadata)
		w.WriteVarInt32(e.BlockRuntimeID)

		aux := wire.NewWriter(32)
		if e.HasTree {
			aux.WriteUint16(binary.LittleEndian, TreeMarker)
			aux.WriteUint8(e.SchemaVersion)
			if err := nbt.WriteRoot(aux, nbt.Fixed16Prefixed, e.Tree); err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
		} else {
			aux.WriteUint16(binary.LittleEndian, 0)
		}
		aux.WriteBytes(e.Extension)
		w.WriteVarUint32(uint32(aux.Len()))
		w.WriteBytes(aux.Bytes())
	}
	return w.Bytes(), nil
}

package nbt

import (
	"encoding/binary"
	"fmt"
	"math"

	"creativecatalog.ai/internal/wire"
)

// Variant selects how string and array lengths are prefixed. Everything
// else about the format is shared.
type Variant struct {
	name string

	readStringLen  func(r *wire.Reader) (int, error)
	writeStringLen func(w *wire.Writer, n int) error
	readArrayLen   func(r *wire.Reader) (int, error)
	writeArrayLen  func(w *wire.Writer, n int) error
}

func (v Variant) String() string { return v.name }

var (
	// VarIntPrefixed is used by block-state descriptor files: lengths are
	// unsigned varints.
	VarIntPrefixed = Variant{
		name:           "varint-prefixed",
		readStringLen:  readVarLen,
		writeStringLen: writeVarLen,
		readArrayLen:   readVarLen,
		writeArrayLen:  writeVarLen,
	}

	// Fixed16Prefixed is used by trees embedded in packets: strings carry a
	// uint16 LE length, arrays an int32 LE length.
	Fixed16Prefixed = Variant{
		name:           "fixed16-prefixed",
		readStringLen:  readFixed16Len,
		writeStringLen: writeFixed16Len,
		readArrayLen:   readFixed32Len,
		writeArrayLen:  writeFixed32Len,
	}
)

func readVarLen(r *wire.Reader) (int, error) {
	n, _, err := wire.ReadVarUint32(r)
	if err != nil {
		return 0, err
	}
	if uint64(n) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: length %d", ErrMalformedTree, n)
	}
	return int(n), nil
}

func writeVarLen(w *wire.Writer, n int) error {
	if n < 0 || n > math.MaxInt32 {
		return fmt.Errorf("%w: length %d not representable", ErrMalformedTree, n)
	}
	w.WriteVarUint32(uint32(n))
	return nil
}

func readFixed16Len(r *wire.Reader) (int, error) {
	n, err := r.ReadUint16(binary.LittleEndian)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func writeFixed16Len(w *wire.Writer, n int) error {
	if n < 0 || n > math.MaxUint16 {
		return fmt.Errorf("%w: string length %d exceeds %d", ErrMalformedTree, n, math.MaxUint16)
	}
	w.WriteUint16(binary.LittleEndian, uint16(n))
	return nil
}

func readFixed32Len(r *wire.Reader) (int, error) {
	n, err := r.ReadUint32(binary.LittleEndian)
	if err != nil {
		return 0, err
	}
	if int32(n) < 0 {
		return 0, fmt.Errorf("%w: negative length %d", ErrMalformedTree, int32(n))
	}
	return int(n), nil
}

func writeFixed32Len(w *wire.Writer, n int) error {
	if n < 0 || n > math.MaxInt32 {
		return fmt.Errorf("%w: length %d not representable", ErrMalformedTree, n)
	}
	w.WriteUint32(binary.LittleEndian, uint32(n))
	return nil
}

package wire

import "fmt"

// MaxVarUint32Len is the longest encoding of a 32-bit varint.
const MaxVarUint32Len = 5

// ReadVarUint32 decodes an unsigned varint: 7-bit groups, least significant
// group first, high bit set on every byte but the last. It returns the value
// and the number of bytes consumed. On error the reader is not advanced.
func ReadVarUint32(r *Reader) (uint32, int, error) {
	var v uint32
	start := r.pos
	for i := 0; i < MaxVarUint32Len; i++ {
		if r.pos >= len(r.buf) {
			r.pos = start
			return 0, 0, fmt.Errorf("%w: varint truncated at offset %d", ErrOutOfBounds, start)
		}
		b := r.buf[r.pos]
		r.pos++
		if i == MaxVarUint32Len-1 && b&0x7f > 0x0f {
			r.pos = start
			return 0, 0, fmt.Errorf("%w: at offset %d", ErrVarIntOverflow, start)
		}
		v |= uint32(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	r.pos = start
	return 0, 0, fmt.Errorf("%w: more than %d groups at offset %d", ErrVarIntOverflow, MaxVarUint32Len, start)
}

// ReadVarInt32 decodes a zig-zag encoded signed varint.
func ReadVarInt32(r *Reader) (int32, int, error) {
	raw, n, err := ReadVarUint32(r)
	if err != nil {
		return 0, 0, err
	}
	return int32(raw>>1) ^ -int32(raw&1), n, nil
}

func AppendVarUint32(buf []byte, v uint32) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

func AppendVarInt32(buf []byte, v int32) []byte {
	return AppendVarUint32(buf, uint32(v<<1)^uint32(v>>31))
}

// VarUint32Len reports how many bytes AppendVarUint32 writes for v.
func VarUint32Len(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

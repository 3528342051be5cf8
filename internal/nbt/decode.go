package nbt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"creativecatalog.ai/internal/wire"
)

var ErrMalformedTree = errors.New("nbt: malformed tree")

// MaxDepth bounds compound/list nesting while decoding.
const MaxDepth = 512

// ReadRoot decodes one named root tag starting at r's position and consumes
// only the bytes the tree occupies. A leading End byte yields a Root with a
// nil Value.
func ReadRoot(r *wire.Reader, v Variant) (Root, error) {
	d := decoder{r: r, v: v}
	kind, err := d.kind()
	if err != nil {
		return Root{}, err
	}
	if kind == TagEnd {
		return Root{}, nil
	}
	name, err := d.str()
	if err != nil {
		return Root{}, err
	}
	val, err := d.payload(kind, 0)
	if err != nil {
		return Root{}, err
	}
	return Root{Name: name, Value: val}, nil
}

// Unmarshal decodes a root tag from b, ignoring any trailing bytes.
func Unmarshal(b []byte, v Variant) (Root, error) {
	return ReadRoot(wire.NewReader(b), v)
}

type decoder struct {
	r *wire.Reader
	v Variant
}

func (d *decoder) kind() (Kind, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, err
	}
	k := Kind(b)
	if !k.Valid() {
		return 0, fmt.Errorf("%w: unknown tag kind 0x%02x at offset %d", ErrMalformedTree, b, d.r.Pos()-1)
	}
	return k, nil
}

func (d *decoder) str() (string, error) {
	n, err := d.v.readStringLen(d.r)
	if err != nil {
		return "", err
	}
	b, err := d.r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// elems checks that n elements of the given width fit in what remains so a
// hostile length cannot force a huge allocation.
func (d *decoder) elems(n, width int) error {
	if n > d.r.Remaining()/width {
		return fmt.Errorf("%w: %d elements of %d bytes at offset %d, have %d", wire.ErrOutOfBounds, n, width, d.r.Pos(), d.r.Remaining())
	}
	return nil
}

func (d *decoder) payload(kind Kind, depth int) (Tag, error) {
	le := binary.LittleEndian
	switch kind {
	case TagByte:
		b, err := d.r.ReadByte()
		return Byte(int8(b)), err
	case TagShort:
		v, err := d.r.ReadUint16(le)
		return Short(int16(v)), err
	case TagInt:
		v, err := d.r.ReadUint32(le)
		return Int(int32(v)), err
	case TagLong:
		v, err := d.r.ReadUint64(le)
		return Long(int64(v)), err
	case TagFloat:
		v, err := d.r.ReadUint32(le)
		return Float(math.Float32frombits(v)), err
	case TagDouble:
		v, err := d.r.ReadUint64(le)
		return Double(math.Float64frombits(v)), err
	case TagString:
		s, err := d.str()
		return String(s), err
	case TagByteArray:
		n, err := d.v.readArrayLen(d.r)
		if err != nil {
			return nil, err
		}
		b, err := d.r.ReadBytes(n)
		if err != nil {
			return nil, err
		}
		return ByteArray(append([]byte(nil), b...)), nil
	case TagIntArray:
		n, err := d.v.readArrayLen(d.r)
		if err != nil {
			return nil, err
		}
		if err := d.elems(n, 4); err != nil {
			return nil, err
		}
		out := make(IntArray, n)
		for i := range out {
			v, err := d.r.ReadUint32(le)
			if err != nil {
				return nil, err
			}
			out[i] = int32(v)
		}
		return out, nil
	case TagLongArray:
		n, err := d.v.readArrayLen(d.r)
		if err != nil {
			return nil, err
		}
		if err := d.elems(n, 8); err != nil {
			return nil, err
		}
		out := make(LongArray, n)
		for i := range out {
			v, err := d.r.ReadUint64(le)
			if err != nil {
				return nil, err
			}
			out[i] = int64(v)
		}
		return out, nil
	case TagList:
		return d.list(depth + 1)
	case TagCompound:
		return d.compound(depth + 1)
	}
	return nil, fmt.Errorf("%w: unexpected %v payload", ErrMalformedTree, kind)
}

func (d *decoder) list(depth int) (Tag, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrMalformedTree, MaxDepth)
	}
	elem, err := d.kind()
	if err != nil {
		return nil, err
	}
	raw, err := d.r.ReadUint32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	n := int32(raw)
	if n < 0 {
		return nil, fmt.Errorf("%w: negative list length %d", ErrMalformedTree, n)
	}
	if elem == TagEnd && n > 0 {
		return nil, fmt.Errorf("%w: list of %v with %d elements", ErrMalformedTree, elem, n)
	}
	// Every element occupies at least one byte.
	if err := d.elems(int(n), 1); err != nil {
		return nil, err
	}
	l := &List{Elem: elem, Items: make([]Tag, 0, n)}
	for i := int32(0); i < n; i++ {
		t, err := d.payload(elem, depth)
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, t)
	}
	return l, nil
}

func (d *decoder) compound(depth int) (Tag, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrMalformedTree, MaxDepth)
	}
	c := NewCompound()
	for {
		kind, err := d.kind()
		if err != nil {
			return nil, err
		}
		if kind == TagEnd {
			return c, nil
		}
		name, err := d.str()
		if err != nil {
			return nil, err
		}
		if _, dup := c.Get(name); dup {
			return nil, fmt.Errorf("%w: duplicate compound member %q", ErrMalformedTree, name)
		}
		t, err := d.payload(kind, depth)
		if err != nil {
			return nil, err
		}
		c.Set(name, t)
	}
}

package nbt

import (
	"encoding/binary"
	"fmt"
	"math"

	"creativecatalog.ai/internal/wire"
)

// WriteRoot encodes root to w. A nil root Value writes a lone End byte.
func WriteRoot(w *wire.Writer, v Variant, root Root) error {
	if root.Value == nil {
		w.WriteUint8(byte(TagEnd))
		return nil
	}
	e := encoder{w: w, v: v}
	w.WriteUint8(byte(root.Value.Kind()))
	if err := e.str(root.Name); err != nil {
		return err
	}
	return e.payload(root.Value, 0)
}

// Marshal encodes root into a fresh buffer.
func Marshal(root Root, v Variant) ([]byte, error) {
	w := wire.NewWriter(64)
	if err := WriteRoot(w, v, root); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

type encoder struct {
	w *wire.Writer
	v Variant
}

func (e *encoder) str(s string) error {
	if err := e.v.writeStringLen(e.w, len(s)); err != nil {
		return err
	}
	e.w.WriteString(s)
	return nil
}

func (e *encoder) payload(t Tag, depth int) error {
	le := binary.LittleEndian
	switch v := t.(type) {
	case Byte:
		e.w.WriteUint8(byte(v))
	case Short:
		e.w.WriteUint16(le, uint16(v))
	case Int:
		e.w.WriteUint32(le, uint32(v))
	case Long:
		e.w.WriteUint64(le, uint64(v))
	case Float:
		e.w.WriteUint32(le, math.Float32bits(float32(v)))
	case Double:
		e.w.WriteUint64(le, math.Float64bits(float64(v)))
	case String:
		return e.str(string(v))
	case ByteArray:
		if err := e.v.writeArrayLen(e.w, len(v)); err != nil {
			return err
		}
		e.w.WriteBytes(v)
	case IntArray:
		if err := e.v.writeArrayLen(e.w, len(v)); err != nil {
			return err
		}
		for _, x := range v {
			e.w.WriteUint32(le, uint32(x))
		}
	case LongArray:
		if err := e.v.writeArrayLen(e.w, len(v)); err != nil {
			return err
		}
		for _, x := range v {
			e.w.WriteUint64(le, uint64(x))
		}
	case *List:
		return e.list(v, depth+1)
	case *Compound:
		return e.compound(v, depth+1)
	default:
		return fmt.Errorf("%w: cannot encode %T", ErrMalformedTree, t)
	}
	return nil
}

func (e *encoder) list(l *List, depth int) error {
	if l == nil {
		return fmt.Errorf("%w: nil list", ErrMalformedTree)
	}
	if depth > MaxDepth {
		return fmt.Errorf("%w: nesting deeper than %d", ErrMalformedTree, MaxDepth)
	}
	if !l.Elem.Valid() || (l.Elem == TagEnd && len(l.Items) > 0) {
		return fmt.Errorf("%w: list declares %v with %d items", ErrMalformedTree, l.Elem, len(l.Items))
	}
	if len(l.Items) > math.MaxInt32 {
		return fmt.Errorf("%w: list too long", ErrMalformedTree)
	}
	e.w.WriteUint8(byte(l.Elem))
	e.w.WriteUint32(binary.LittleEndian, uint32(len(l.Items)))
	for i, item := range l.Items {
		if item == nil || item.Kind() != l.Elem {
			return fmt.Errorf("%w: list item %d is not %v", ErrMalformedTree, i, l.Elem)
		}
		if err := e.payload(item, depth); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) compound(c *Compound, depth int) error {
	if c == nil {
		return fmt.Errorf("%w: nil compound", ErrMalformedTree)
	}
	if depth > MaxDepth {
		return fmt.Errorf("%w: nesting deeper than %d", ErrMalformedTree, MaxDepth)
	}
	var err error
	c.Each(func(name string, t Tag) bool {
		if t == nil {
			err = fmt.Errorf("%w: compound member %q has no value", ErrMalformedTree, name)
			return false
		}
		e.w.WriteUint8(byte(t.Kind()))
		if err = e.str(name); err != nil {
			return false
		}
		err = e.payload(t, depth)
		return err == nil
	})
	if err != nil {
		return err
	}
	e.w.WriteUint8(byte(TagEnd))
	return nil
}

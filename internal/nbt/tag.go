package nbt

import (
	"bytes"
	"math"
	"slices"

	"github.com/elliotchance/orderedmap/v3"
)

// Tag is one node of a tree. End is a terminator and never a Tag value.
type Tag interface {
	Kind() Kind
}

type (
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	ByteArray []byte
	String    string
	IntArray  []int32
	LongArray []int64
)

func (Byte) Kind() Kind      { return TagByte }
func (Short) Kind() Kind     { return TagShort }
func (Int) Kind() Kind       { return TagInt }
func (Long) Kind() Kind      { return TagLong }
func (Float) Kind() Kind     { return TagFloat }
func (Double) Kind() Kind    { return TagDouble }
func (ByteArray) Kind() Kind { return TagByteArray }
func (String) Kind() Kind    { return TagString }
func (IntArray) Kind() Kind  { return TagIntArray }
func (LongArray) Kind() Kind { return TagLongArray }

// List is a homogeneous sequence. An empty list conventionally declares
// TagEnd as its element kind.
type List struct {
	Elem  Kind
	Items []Tag
}

func (*List) Kind() Kind { return TagList }

func NewList(elem Kind, items ...Tag) *List {
	return &List{Elem: elem, Items: items}
}

// Compound holds uniquely named children in insertion order.
type Compound struct {
	m *orderedmap.OrderedMap[string, Tag]
}

func (*Compound) Kind() Kind { return TagCompound }

func NewCompound() *Compound {
	return &Compound{m: orderedmap.NewOrderedMap[string, Tag]()}
}

// Set adds or replaces a child. Replacing keeps the original position.
func (c *Compound) Set(name string, t Tag) *Compound {
	if c.m == nil {
		c.m = orderedmap.NewOrderedMap[string, Tag]()
	}
	c.m.Set(name, t)
	return c
}

func (c *Compound) Get(name string) (Tag, bool) {
	if c == nil || c.m == nil {
		return nil, false
	}
	return c.m.Get(name)
}

// StringValue returns the named child if it is a String tag.
func (c *Compound) StringValue(name string) (string, bool) {
	t, ok := c.Get(name)
	if !ok {
		return "", false
	}
	s, ok := t.(String)
	return string(s), ok
}

func (c *Compound) Len() int {
	if c == nil || c.m == nil {
		return 0
	}
	return c.m.Len()
}

// Each visits children in insertion order until fn returns false.
func (c *Compound) Each(fn func(name string, t Tag) bool) {
	if c == nil || c.m == nil {
		return
	}
	for el := c.m.Front(); el != nil; el = el.Next() {
		if !fn(el.Key, el.Value) {
			return
		}
	}
}

func (c *Compound) Names() []string {
	out := make([]string, 0, c.Len())
	c.Each(func(name string, _ Tag) bool {
		out = append(out, name)
		return true
	})
	return out
}

// Root is a top-level named tag. A nil Value stands for a document that
// consists of a single End byte.
type Root struct {
	Name  string
	Value Tag
}

// Equal reports whether two trees are structurally identical, including
// compound child order. Floats compare by bit pattern so NaN payloads
// survive a round trip check.
func Equal(a, b Tag) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Float:
		return math.Float32bits(float32(av)) == math.Float32bits(float32(b.(Float)))
	case Double:
		return math.Float64bits(float64(av)) == math.Float64bits(float64(b.(Double)))
	case ByteArray:
		return bytes.Equal(av, b.(ByteArray))
	case IntArray:
		return slices.Equal(av, b.(IntArray))
	case LongArray:
		return slices.Equal(av, b.(LongArray))
	case *List:
		bv := b.(*List)
		if av.Elem != bv.Elem || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *Compound:
		bv := b.(*Compound)
		if av.Len() != bv.Len() {
			return false
		}
		an, bn := av.Names(), bv.Names()
		for i := range an {
			if an[i] != bn[i] {
				return false
			}
			x, _ := av.Get(an[i])
			y, _ := bv.Get(bn[i])
			if !Equal(x, y) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

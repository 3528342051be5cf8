// Package nbt reads and writes the little-endian tagged tree format used by
// the Bedrock protocol and its descriptor files. A single codec serves both
// string-length conventions through Variant.
package nbt

import "fmt"

// Kind is the tag-kind byte that prefixes every node on the wire.
type Kind byte

const (
	TagEnd Kind = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

func (k Kind) Valid() bool { return k <= TagLongArray }

func (k Kind) String() string {
	name := "Unknown"
	switch k {
	case TagEnd:
		name = "TAG_End"
	case TagByte:
		name = "TAG_Byte"
	case TagShort:
		name = "TAG_Short"
	case TagInt:
		name = "TAG_Int"
	case TagLong:
		name = "TAG_Long"
	case TagFloat:
		name = "TAG_Float"
	case TagDouble:
		name = "TAG_Double"
	case TagByteArray:
		name = "TAG_Byte_Array"
	case TagString:
		name = "TAG_String"
	case TagList:
		name = "TAG_List"
	case TagCompound:
		name = "TAG_Compound"
	case TagIntArray:
		name = "TAG_Int_Array"
	case TagLongArray:
		name = "TAG_Long_Array"
	}
	return fmt.Sprintf("%s (0x%02x)", name, byte(k))
}

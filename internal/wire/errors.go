package wire

import "errors"

var (
	ErrOutOfBounds    = errors.New("wire: read out of bounds")
	ErrVarIntOverflow = errors.New("wire: varint overflows 32 bits")
	ErrNegativeLength = errors.New("wire: negative length")
)

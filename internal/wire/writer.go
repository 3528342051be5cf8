package wire

import "encoding/binary"

// Writer appends to a growable buffer. Writes never fail.
type Writer struct {
	buf []byte
}

func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

func (w *Writer) Bytes() []byte { return w.buf }
func (w *Writer) Len() int      { return len(w.buf) }

func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteUint16(order binary.AppendByteOrder, v uint16) {
	w.buf = order.AppendUint16(w.buf, v)
}

func (w *Writer) WriteUint32(order binary.AppendByteOrder, v uint32) {
	w.buf = order.AppendUint32(w.buf, v)
}

func (w *Writer) WriteUint64(order binary.AppendByteOrder, v uint64) {
	w.buf = order.AppendUint64(w.buf, v)
}

func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *Writer) WriteString(s string) {
	w.buf = append(w.buf, s...)
}

func (w *Writer) WriteVarUint32(v uint32) {
	w.buf = AppendVarUint32(w.buf, v)
}

func (w *Writer) WriteVarInt32(v int32) {
	w.buf = AppendVarInt32(w.buf, v)
}

package mmd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

// baseWriter encodes into an in-memory buffer. Callers flush the buffer only
// when the whole document has been encoded without error.
type baseWriter struct {
	w   *bytes.Buffer
	err error
}

func (w *baseWriter) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *baseWriter) write(v interface{}) error {
	if w.err != nil {
		return w.err
	}
	if err := binary.Write(w.w, binary.LittleEndian, v); err != nil {
		w.fail(err)
	}
	return w.err
}

func (w *baseWriter) writeUint8(v uint8) {
	w.write(v)
}

func (w *baseWriter) writeUint16(v uint16) {
	w.write(v)
}

func (w *baseWriter) writeInt(v int) {
	w.write(int32(v))
}

func (w *baseWriter) writeFloat(v float32) {
	w.write(v)
}

func (w *baseWriter) writeVUInt(sz byte, vv int) {
	switch sz {
	case 1:
		w.write(uint8(vv))
	case 2:
		w.write(uint16(vv))
	case 4:
		w.write(uint32(vv))
	default:
		w.fail(fmt.Errorf("mmd: invalid index size %d", sz))
	}
}

func (w *baseWriter) writeVInt(sz byte, vv int) {
	switch sz {
	case 1:
		w.write(int8(vv))
	case 2:
		w.write(int16(vv))
	case 4:
		w.write(int32(vv))
	default:
		w.fail(fmt.Errorf("mmd: invalid index size %d", sz))
	}
}

// writeString writes s as a zero padded Shift_JIS field of n bytes.
// Characters that do not fit are dropped whole.
func (w *baseWriter) writeString(s string, n int) {
	w.write(encodeFixedString(s, n))
}

// FitsVMDName reports whether s encodes to at most the 15 Shift_JIS bytes a
// VMD key frame target can hold.
func FitsVMDName(s string) bool {
	n := 0
	for _, r := range s {
		b, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(string(r)))
		if err != nil {
			b = []byte{'?'}
		}
		n += len(b)
	}
	return n <= vmdNameSize
}

func encodeFixedString(s string, n int) []byte {
	enc := japanese.ShiftJIS.NewEncoder()
	dst := make([]byte, 0, n)
	var buf [utf8.UTFMax]byte
	for _, r := range s {
		l := utf8.EncodeRune(buf[:], r)
		b, err := enc.Bytes(buf[:l])
		if err != nil {
			b = []byte{'?'}
		}
		if len(dst)+len(b) > n {
			log.Printf("mmd: name %q truncated to %d bytes", s, n)
			break
		}
		dst = append(dst, b...)
	}
	return append(dst, make([]byte, n-len(dst))...)
}

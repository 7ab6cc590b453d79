package mmd

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// maxTextBytes bounds a single length-prefixed string.
const maxTextBytes = 1 << 24

// baseParser reads little-endian values and keeps the first error.
// After a failure every read returns a zero value.
type baseParser struct {
	r   io.Reader
	pos int64
	op  string
	err error
}

func (p *baseParser) fail(err error) {
	if p.err == nil {
		p.err = &FormatError{Op: p.op, Offset: p.pos, Err: err}
	}
}

func (p *baseParser) failf(format string, args ...interface{}) {
	p.fail(fmt.Errorf(format, args...))
}

func (p *baseParser) read(v interface{}) error {
	if p.err != nil {
		return p.err
	}
	if err := binary.Read(p.r, binary.LittleEndian, v); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		p.fail(err)
		return p.err
	}
	p.pos += int64(binary.Size(v))
	return nil
}

func (p *baseParser) readUint8() uint8 {
	var v uint8
	p.read(&v)
	return v
}

func (p *baseParser) readUint16() uint16 {
	var v uint16
	p.read(&v)
	return v
}

func (p *baseParser) readUint32() uint32 {
	var v uint32
	p.read(&v)
	return v
}

func (p *baseParser) readInt() int {
	var v int32
	p.read(&v)
	return int(v)
}

func (p *baseParser) readFloat() float32 {
	var v float32
	p.read(&v)
	return v
}

// readCount reads an element count and rejects negative values.
func (p *baseParser) readCount() int {
	n := p.readInt()
	if n < 0 {
		p.failf("negative count %d", n)
		return 0
	}
	return n
}

func (p *baseParser) readVUInt(sz byte) int {
	if sz == 1 {
		var v uint8
		p.read(&v)
		return int(v)
	}
	if sz == 2 {
		var v uint16
		p.read(&v)
		return int(v)
	}
	if sz == 4 {
		var v uint32
		p.read(&v)
		return int(v)
	}
	p.failf("invalid index size %d", sz)
	return 0
}

func (p *baseParser) readVInt(sz byte) int {
	if sz == 1 {
		var v int8
		p.read(&v)
		return int(v)
	}
	if sz == 2 {
		var v int16
		p.read(&v)
		return int(v)
	}
	if sz == 4 {
		var v int32
		p.read(&v)
		return int(v)
	}
	p.failf("invalid index size %d", sz)
	return 0
}

func (p *baseParser) readBytes(n int) []byte {
	if p.err != nil {
		return nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(p.r, b); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		p.fail(err)
		return nil
	}
	p.pos += int64(n)
	return b
}

// readString reads a zero padded Shift_JIS string of fixed length.
func (p *baseParser) readString(len int) string {
	b := p.readBytes(len)
	if b == nil {
		return ""
	}
	utf8Data, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), bytes.SplitN(b, []byte{0}, 2)[0])
	if err != nil {
		p.fail(err)
		return ""
	}
	return string(utf8Data)
}

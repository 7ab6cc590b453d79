package mmd

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

func textEncoding(kind byte) encoding.Encoding {
	if kind == TextEncodingUTF16 {
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	}
	return nil
}

func (p *PMXParser) readText() string {
	n := p.readInt()
	if n < 0 || n > maxTextBytes {
		p.failf("invalid text length %d", n)
		return ""
	}
	data := p.readBytes(n)
	if data == nil {
		return ""
	}
	enc := textEncoding(p.header.Info[AttrStringEncoding])
	if enc == nil {
		return string(data)
	}
	if n%2 != 0 {
		p.failf("odd UTF-16 text length %d", n)
		return ""
	}
	s, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		p.fail(err)
		return ""
	}
	return string(s)
}

func (w *PMXWriter) writeText(v string) {
	data := []byte(v)
	if enc := textEncoding(w.header.Info[AttrStringEncoding]); enc != nil {
		b, err := enc.NewEncoder().Bytes(data)
		if err != nil {
			w.fail(err)
			return
		}
		data = b
	}
	w.writeInt(len(data))
	w.write(data)
}

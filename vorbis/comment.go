package vorbis

import (
	"bytes"
	"unicode/utf8"
)

// Comment is a view over one raw KEY=VALUE tag held in engine-owned memory.
// It stays valid only while the Decoder that produced it is open; use Bytes
// for an independent copy.
type Comment struct {
	raw []byte
	sep int // byte offset of the first '=', -1 when absent
}

func newComment(raw []byte) Comment {
	return Comment{raw: raw, sep: bytes.IndexByte(raw, '=')}
}

// Bytes returns an owned copy of the raw comment bytes.
func (c Comment) Bytes() []byte {
	out := make([]byte, len(c.raw))
	copy(out, c.raw)
	return out
}

// KeyBytes returns the bytes before the '=' separator, or ErrCommentFormat
// when the comment has no separator.
func (c Comment) KeyBytes() ([]byte, error) {
	if c.sep < 0 {
		return nil, ErrCommentFormat
	}
	return c.raw[:c.sep], nil
}

// ValueBytes returns the bytes after the '=' separator, or ErrCommentFormat
// when the comment has no separator.
func (c Comment) ValueBytes() ([]byte, error) {
	if c.sep < 0 {
		return nil, ErrCommentFormat
	}
	return c.raw[c.sep+1:], nil
}

// HasKey reports whether the key portion equals key byte-for-byte.
func (c Comment) HasKey(key []byte) (bool, error) {
	kb, err := c.KeyBytes()
	if err != nil {
		return false, err
	}
	return bytes.Equal(kb, key), nil
}

// Key decodes the key portion. Keys are printable ASCII in [0x20, 0x7D]
// excluding '='; any other byte is ErrCommentFormat.
func (c Comment) Key() (string, error) {
	kb, err := c.KeyBytes()
	if err != nil {
		return "", err
	}
	for _, b := range kb {
		if b < 0x20 || b > 0x7D {
			return "", ErrCommentFormat
		}
	}
	return string(kb), nil
}

// Value decodes the value portion, which must be well-formed UTF-8.
func (c Comment) Value() (string, error) {
	vb, err := c.ValueBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(vb) {
		return "", encodingFailure("comment value")
	}
	return string(vb), nil
}

// Package textenc resolves text encoding names and decodes records.
package textenc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Decoder converts raw record bytes to text.
type Decoder struct {
	name string
	enc  encoding.Encoding
	utf8 bool
}

// Lookup returns a Decoder for the named encoding.
//
// Names follow the WHATWG Encoding Standard labels ("utf-8", "latin1",
// "utf-16le", "shift_jis", ...) and are case-insensitive.
func Lookup(name string) (*Decoder, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = label
	}
	return &Decoder{name: canonical, enc: enc, utf8: enc == unicode.UTF8}, nil
}

// Name returns the canonical name of the encoding.
func (d *Decoder) Name() string {
	return d.name
}

// Decode converts b to a string. Invalid input sequences are replaced with
// U+FFFD.
func (d *Decoder) Decode(b []byte) (string, error) {
	if d.utf8 && utf8.Valid(b) {
		return string(b), nil
	}
	out, err := d.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", d.name, err)
	}
	return string(out), nil
}

package extractor

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// DecodeText turns raw upload bytes into text.
//
// UTF-8 (with or without a byte-order mark) is tried first. Anything that is
// not valid UTF-8 is read as Latin-1, which maps every byte to a rune and so
// cannot fail.
func DecodeText(content []byte) string {
	if utf8.Valid(content) {
		if out, err := unicode.UTF8BOM.NewDecoder().Bytes(content); err == nil {
			return string(out)
		}
	}
	out, _ := charmap.ISO8859_1.NewDecoder().Bytes(content)
	return string(out)
}

// ErrNotUTF8 is returned by DecodeUTF8 for content in any other encoding.
var ErrNotUTF8 = errors.New("content is not valid UTF-8")

// DecodeUTF8 strips a byte-order mark and rejects anything that is not UTF-8.
func DecodeUTF8(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", ErrNotUTF8
	}
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(content)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

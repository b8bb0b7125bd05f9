package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Sentinel errors for charset decoding.
var (
	ErrUnknownCharset = errors.New("unknown charset")
	ErrCharsetDecode  = errors.New("charset decoding failed")
)

// DecodeHTML converts raw HTML bytes to a UTF-8 string.
//
// label forces the source encoding ("windows-1252", "shift_jis", ...) using
// the WHATWG label set. An empty label sniffs the encoding the way browsers
// do: byte order mark, then <meta charset> in the first 1024 bytes, then a
// content heuristic. A leading byte order mark is dropped from the result.
func DecodeHTML(data []byte, label string) (string, error) {
	var enc encoding.Encoding
	if label != "" {
		e, err := htmlindex.Get(label)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrUnknownCharset, label)
		}
		enc = e
	} else {
		enc, _, _ = charset.DetermineEncoding(data, "text/html")
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCharsetDecode, err)
	}
	return strings.TrimPrefix(string(out), "\uFEFF"), nil
}

// CharsetName returns the canonical WHATWG name for label, or an error if the
// label is unknown. Used to validate configuration before any file is read.
func CharsetName(label string) (string, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownCharset, label)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownCharset, label)
	}
	return name, nil
}

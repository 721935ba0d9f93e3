// Copyright Kampmann Lab, 2026. All rights reserved.

package stringdb

import (
	"errors"
	"fmt"
)

// Kind tags a Response as binary or textual content.
type Kind int

const (
	// KindBinary marks raw image bytes.
	KindBinary Kind = iota
	// KindText marks delimited-text or JSON content.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindBinary:
		return "binary"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ErrWrongKind reports access to a Response through the wrong variant
// accessor, e.g. asking a text response for image bytes.
var ErrWrongKind = errors.New("wrong response kind")

// Response is the tagged result of a low-level API call: either raw
// bytes for image formats or text for tsv, tsv-no-header, and json.
type Response struct {
	kind   Kind
	format string
	data   []byte
}

func newBinary(format string, data []byte) Response {
	return Response{kind: KindBinary, format: format, data: data}
}

func newText(format string, data []byte) Response {
	return Response{kind: KindText, format: format, data: data}
}

// Kind returns the variant tag.
func (r Response) Kind() Kind { return r.kind }

// Format returns the output format the call requested.
func (r Response) Format() string { return r.format }

// Bytes returns the binary content, failing if the response is textual.
func (r Response) Bytes() ([]byte, error) {
	if r.kind != KindBinary {
		return nil, fmt.Errorf("%s response for format %q carries no binary content: %w",
			r.kind, r.format, ErrWrongKind)
	}
	return r.data, nil
}

// Text returns the textual content, failing if the response is binary.
func (r Response) Text() (string, error) {
	if r.kind != KindText {
		return "", fmt.Errorf("%s response for format %q carries no text content: %w",
			r.kind, r.format, ErrWrongKind)
	}
	return string(r.data), nil
}

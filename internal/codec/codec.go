// Package codec converts between blueprint strings and their JSON text.
//
// A blueprint string is a one character version marker followed by the
// standard padded base64 encoding of a zlib stream holding UTF-8 JSON.
package codec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/zlib"

	"github.com/agentic-research/bpkit/internal/value"
)

// Version is the only supported version marker.
const Version = '0'

var (
	// ErrUnsupportedVersion is returned for empty input or an unknown
	// version marker.
	ErrUnsupportedVersion = errors.New("unsupported blueprint string version")

	// ErrMalformedBase64 is returned when the payload is not standard
	// padded base64.
	ErrMalformedBase64 = errors.New("malformed base64")

	// ErrMalformedCompression is returned when the payload does not
	// inflate as a complete zlib stream.
	ErrMalformedCompression = errors.New("malformed zlib stream")

	// ErrInvalidText is returned when the inflated payload is not UTF-8.
	ErrInvalidText = errors.New("decoded text is not valid UTF-8")
)

var b64 = base64.StdEncoding.Strict()

// Decode returns the JSON text carried by a blueprint string. Surrounding
// whitespace is ignored.
func Decode(wire string) (string, error) {
	wire = strings.TrimSpace(wire)
	if wire == "" {
		return "", fmt.Errorf("%w: empty input", ErrUnsupportedVersion)
	}
	if wire[0] != Version {
		r, _ := utf8.DecodeRuneInString(wire)
		return "", fmt.Errorf("%w: %q", ErrUnsupportedVersion, r)
	}

	compressed, err := b64.DecodeString(wire[1:])
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedBase64, err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedCompression, err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedCompression, err)
	}

	if !utf8.Valid(raw) {
		return "", ErrInvalidText
	}
	return string(raw), nil
}

// Encoder produces blueprint strings at a fixed compression level.
type Encoder struct {
	level int
}

// NewEncoder validates level, which takes the zlib package constants.
func NewEncoder(level int) (*Encoder, error) {
	if _, err := zlib.NewWriterLevel(io.Discard, level); err != nil {
		return nil, err
	}
	return &Encoder{level: level}, nil
}

var defaultEncoder = &Encoder{level: zlib.BestSpeed}

// Encode wraps text as a version 0 blueprint string.
func (e *Encoder) Encode(text string) string {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, e.level)
	if err != nil {
		// Levels are checked by NewEncoder.
		panic(err)
	}
	// Writes into a bytes.Buffer cannot fail.
	_, _ = io.WriteString(zw, text)
	_ = zw.Close()

	return string(Version) + b64.EncodeToString(buf.Bytes())
}

// Encode wraps text using the fastest compression level.
func Encode(text string) string {
	return defaultEncoder.Encode(text)
}

// DecodeValue decodes a blueprint string and parses the JSON it carries.
func DecodeValue(wire string) (value.Value, error) {
	text, err := Decode(wire)
	if err != nil {
		return value.Value{}, err
	}
	v, err := value.Parse(text)
	if err != nil {
		return value.Value{}, fmt.Errorf("parse blueprint: %w", err)
	}
	return v, nil
}

// EncodeValue serializes v as compact JSON and wraps it.
func (e *Encoder) EncodeValue(v value.Value) (string, error) {
	text, err := v.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("serialize blueprint: %w", err)
	}
	return e.Encode(string(text)), nil
}

// EncodeValue is Encoder.EncodeValue with the fastest compression level.
func EncodeValue(v value.Value) (string, error) {
	return defaultEncoder.EncodeValue(v)
}

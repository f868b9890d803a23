package codec

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"topowatch/internal/domain"
	"topowatch/internal/layout"
)

// Format names a wire serialization
type Format string

const (
	FormatDelta Format = "delta"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	// FormatAuto picks delta or JSON by sniffing the payload
	FormatAuto Format = "auto"
)

// Decoder turns a raw payload into a snapshot
type Decoder interface {
	Decode(r io.Reader) (*domain.Snapshot, error)
	Format() Format
}

// Encoder writes a snapshot in its wire format
type Encoder interface {
	Encode(snap *domain.Snapshot, w io.Writer) error
	Format() Format
}

// Codec is a format that can be read and written
type Codec interface {
	Decoder
	Encoder
	ContentType() string
}

// ParseFormat resolves a format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatDelta, FormatJSON, FormatYAML, FormatAuto:
		return f, nil
	case "":
		return FormatAuto, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownFormat, name)
}

// Detect sniffs a payload: a leading '{' means the JSON snapshot format,
// anything else is read as delta-tag lines
func Detect(raw []byte) Format {
	trimmed := bytes.TrimLeft(raw, " \t\r\n\ufeff")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatDelta
}

// ForFormat returns the codec for a concrete format
func ForFormat(f Format) (Codec, error) {
	switch f {
	case FormatDelta:
		return NewDeltaCodec(), nil
	case FormatJSON:
		return NewJSONCodec(), nil
	case FormatYAML:
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFormat, f)
}

// Parse decodes a payload, assigns link offsets and validates link references.
// The returned snapshot is ready to be handed to the topology store.
func Parse(raw []byte, format Format) (*domain.Snapshot, error) {
	if format == FormatAuto || format == "" {
		format = Detect(raw)
	}

	c, err := ForFormat(format)
	if err != nil {
		return nil, err
	}

	snap, err := c.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	layout.AssignTopologyOffsets(snap)

	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

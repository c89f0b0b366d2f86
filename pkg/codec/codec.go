// Package codec implements core.Codec for the supported on-disk formats.
package codec

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/aretw0/jot/pkg/core"
)

// Format names a supported encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Extension returns the file extension conventionally used for f.
func (f Format) Extension() string {
	switch f {
	case FormatYAML, "yml":
		return ".yaml"
	default:
		return ".json"
	}
}

// New returns the codec for the named format.
func New(format Format) (core.Codec, error) {
	switch format {
	case FormatJSON, "":
		return NewJSON(), nil
	case FormatYAML, "yml":
		return NewYAML(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// checkEncodable rejects notes that could not be read back unchanged.
func checkEncodable(notes []core.Note) error {
	for i, n := range notes {
		if n.ID == "" {
			return fmt.Errorf("%w: note %d has no id", core.ErrEncode, i)
		}
		if !utf8.ValidString(n.Title) || !utf8.ValidString(n.Body) {
			return fmt.Errorf("%w: note %s contains invalid utf-8", core.ErrEncode, n.ID)
		}
	}
	return nil
}

// checkDecoded enforces the structural rules of a decoded slot and
// normalises timestamps to UTC.
func checkDecoded(notes []core.Note) ([]core.Note, error) {
	seen := make(map[string]struct{}, len(notes))
	for i := range notes {
		id := notes[i].ID
		if id == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", core.ErrDecode, i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", core.ErrDecode, id)
		}
		seen[id] = struct{}{}
		notes[i].CreatedAt = notes[i].CreatedAt.UTC()
	}
	if notes == nil {
		notes = []core.Note{}
	}
	return notes, nil
}

func isBlank(data []byte) bool {
	return len(bytes.TrimSpace(data)) == 0
}

package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/jot/pkg/core"
)

// JSON encodes a slot as an indented JSON array of notes.
type JSON struct{}

// NewJSON creates a new JSON codec.
func NewJSON() *JSON {
	return &JSON{}
}

func (c *JSON) Encode(notes []core.Note) ([]byte, error) {
	if err := checkEncodable(notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []core.Note{}
	}
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrEncode, err)
	}
	return append(data, '\n'), nil
}

func (c *JSON) Decode(data []byte) ([]core.Note, error) {
	if isBlank(data) {
		return []core.Note{}, nil
	}

	var notes []core.Note
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&notes); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %w", core.ErrDecode, err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after note list", core.ErrDecode)
	}
	if notes == nil {
		// A literal null is not a note list.
		return nil, fmt.Errorf("%w: expected a json array", core.ErrDecode)
	}
	return checkDecoded(notes)
}

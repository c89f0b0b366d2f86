package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/jot/pkg/core"
)

// YAML encodes a slot as a YAML sequence of mappings.
type YAML struct{}

// NewYAML creates a new YAML codec.
func NewYAML() *YAML {
	return &YAML{}
}

func (c *YAML) Encode(notes []core.Note) ([]byte, error) {
	if err := checkEncodable(notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []core.Note{}
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(notes); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrEncode, err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrEncode, err)
	}
	return buf.Bytes(), nil
}

func (c *YAML) Decode(data []byte) ([]core.Note, error) {
	if isBlank(data) {
		return []core.Note{}, nil
	}

	var notes []core.Note
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&notes); err != nil {
		return nil, fmt.Errorf("%w: invalid yaml: %w", core.ErrDecode, err)
	}

	var extra any
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: more than one yaml document", core.ErrDecode)
	}
	if notes == nil {
		// A null document is not a note list.
		return nil, fmt.Errorf("%w: expected a yaml sequence", core.ErrDecode)
	}
	return checkDecoded(notes)
}

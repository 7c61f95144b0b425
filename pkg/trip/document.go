package trip

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-proposal/pkg/datatree"
)

// Document wraps the raw trip payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("trip: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("trip: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Decode parses the payload (JSON first, YAML as fallback) into ordered tree
// values.
func (d Document) Decode() (any, error) {
	value, err := datatree.Decode(d.raw)
	if err != nil {
		return nil, fmt.Errorf("trip: decode %s: %w", d.Location(), err)
	}
	return value, nil
}

package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-proposal/pkg/datatree"
)

// Transformer rewrites the decoded trip tree before it is shaped.
// Implementations can patch client details, add defaults or drop sections.
type Transformer interface {
	Transform(ctx context.Context, data *datatree.Map) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, data *datatree.Map) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, data *datatree.Map) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, data)
}

// OverlayTransformer merges a JSON or YAML overlay document into the trip.
// Mappings merge key by key, null removes a key and any other value
// replaces the trip's value:
//
//	meta:
//	  clientName: The Hendersons
//	flights: null
type OverlayTransformer struct {
	overlay *datatree.Map
}

// NewOverlayTransformer constructs a transformer from raw JSON or YAML.
func NewOverlayTransformer(data []byte) (*OverlayTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("overlay transformer: document is empty")
	}
	decoded, err := datatree.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("overlay transformer: parse document: %w", err)
	}
	overlay, ok := decoded.(*datatree.Map)
	if !ok {
		return nil, errors.New("overlay transformer: document must be a mapping")
	}
	return &OverlayTransformer{overlay: overlay}, nil
}

// NewOverlayTransformerFromFS loads an overlay document from fsys.
func NewOverlayTransformerFromFS(fsys fs.FS, path string) (*OverlayTransformer, error) {
	if fsys == nil {
		return nil, errors.New("overlay transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("overlay transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("overlay transformer: read %s: %w", path, err)
	}
	return NewOverlayTransformer(data)
}

// Transform merges the overlay into data.
func (t *OverlayTransformer) Transform(ctx context.Context, data *datatree.Map) error {
	if t == nil || t.overlay == nil || data == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	mergeInto(data, t.overlay)
	return nil
}

func mergeInto(dst, src *datatree.Map) {
	src.Range(func(key string, value any) bool {
		switch v := value.(type) {
		case nil:
			dst.Delete(key)
		case *datatree.Map:
			existing, _ := dst.Get(key)
			if target, ok := existing.(*datatree.Map); ok {
				mergeInto(target, v)
			} else {
				dst.Set(key, clone(v))
			}
		default:
			dst.Set(key, clone(v))
		}
		return true
	})
}

func clone(value any) any {
	switch v := value.(type) {
	case *datatree.Map:
		out := datatree.NewMap()
		v.Range(func(key string, item any) bool {
			out.Set(key, clone(item))
			return true
		})
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = clone(item)
		}
		return out
	default:
		return v
	}
}

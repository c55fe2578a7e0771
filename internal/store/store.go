// Package store persists the gallery of enrolled face embeddings.
//
// Every backend reads and replaces the whole gallery at once. A missing
// backing document is an empty gallery; anything unreadable is reported as
// domain.ErrStorageRead and never silently dropped. Saves are atomic: a
// failed Save leaves the previous durable state intact.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/omran-mahr/Aspiro-AI/internal/domain"
)

type Store interface {
	Load(ctx context.Context) (domain.Gallery, error)
	Save(ctx context.Context, gallery domain.Gallery) error
}

// Appender is implemented by stores that can add a single embedding in one
// keyed transaction, without a load-modify-save cycle.
type Appender interface {
	Append(ctx context.Context, name string, e domain.Embedding) (int, error)
}

// decodeGallery parses the JSON document shared by the file and object backends.
func decodeGallery(data []byte) (domain.Gallery, error) {
	gallery := domain.Gallery{}
	if err := json.Unmarshal(data, &gallery); err != nil {
		return nil, fmt.Errorf("decode gallery: %w", err)
	}
	if gallery == nil {
		// "null" document
		gallery = domain.Gallery{}
	}
	if err := gallery.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gallery: %w", err)
	}
	return gallery, nil
}

func encodeGallery(gallery domain.Gallery) ([]byte, error) {
	if gallery == nil {
		gallery = domain.Gallery{}
	}
	if err := gallery.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gallery: %w", err)
	}
	data, err := json.Marshal(gallery)
	if err != nil {
		return nil, fmt.Errorf("encode gallery: %w", err)
	}
	return data, nil
}

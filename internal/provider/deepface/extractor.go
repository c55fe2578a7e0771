package deepface

import (
	"context"
	"fmt"
	"image"

	"github.com/omran-mahr/Aspiro-AI/internal/domain"
	"github.com/omran-mahr/Aspiro-AI/internal/imaging"
	"github.com/omran-mahr/Aspiro-AI/internal/provider"
)

var _ provider.EmbeddingExtractor = (*Extractor)(nil)

// Extractor computes embeddings for face crops with detection skipped.
type Extractor struct {
	client *Client
}

func NewExtractor(client *Client) *Extractor {
	return &Extractor{client: client}
}

func (e *Extractor) Name() string {
	return "deepface/" + e.client.config.Model
}

func (e *Extractor) ExtractEmbedding(ctx context.Context, face image.Image) (domain.Embedding, error) {
	data, err := imaging.EncodeJPEG(face)
	if err != nil {
		return domain.Embedding{}, fmt.Errorf("extract embedding: %w", err)
	}

	resp, err := e.client.Represent(ctx, RepresentRequest{
		Img:              EncodeImage(data),
		DetectorBackend:  "skip",
		EnforceDetection: false,
		Align:            false,
	})
	if err != nil {
		return domain.Embedding{}, fmt.Errorf("extract embedding: %w", err)
	}

	if len(resp.Results) == 0 {
		return domain.Embedding{}, ErrNoFaceInResponse
	}

	result := resp.Results[0]
	if len(result.Embedding) == 0 {
		return domain.Embedding{}, fmt.Errorf("%w: empty embedding", ErrInvalidResponse)
	}

	return domain.Embedding{Vector: result.Embedding}.
		WithMetadata("facial_area", result.FacialArea).
		WithMetadata("face_confidence", result.FaceConfidence), nil
}

package provider

import (
	"context"
	"image"

	"github.com/omran-mahr/Aspiro-AI/internal/domain"
)

// FaceDetector localiza faces numa imagem RGB de 3 canais.
// Regions are returned in detection order with boxes in the coordinates of
// img. No face is an empty slice, not an error.
type FaceDetector interface {
	DetectFaces(ctx context.Context, img image.Image) ([]domain.FaceRegion, error)
	Name() string
}

// EmbeddingExtractor calcula o embedding de um recorte de face, sem nova detecção.
type EmbeddingExtractor interface {
	ExtractEmbedding(ctx context.Context, face image.Image) (domain.Embedding, error)
	Name() string
}

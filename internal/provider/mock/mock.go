package mock

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"image"

	"github.com/omran-mahr/Aspiro-AI/internal/domain"
	"github.com/omran-mahr/Aspiro-AI/internal/imaging"
	"github.com/omran-mahr/Aspiro-AI/internal/matcher"
	"github.com/omran-mahr/Aspiro-AI/internal/provider"
)

const (
	embeddingDimension = 512
	// minFaceSide é o menor lado de imagem em que o mock "encontra" um rosto
	minFaceSide = 32
)

// Provider implementa provider.FaceDetector e provider.EmbeddingExtractor
// para testes e desenvolvimento, sem depender de serviços externos.
type Provider struct{}

// New cria uma nova instância do MockProvider
func New() *Provider {
	return &Provider{}
}

func (p *Provider) Name() string {
	return "mock"
}

// DetectFaces simula detecção: uma face central cobrindo 80% da imagem
func (p *Provider) DetectFaces(ctx context.Context, img image.Image) ([]domain.FaceRegion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := img.Bounds()
	if b.Dx() < minFaceSide || b.Dy() < minFaceSide {
		return []domain.FaceRegion{}, nil
	}

	rect := image.Rect(
		b.Min.X+b.Dx()/10,
		b.Min.Y+b.Dy()/10,
		b.Max.X-b.Dx()/10,
		b.Max.Y-b.Dy()/10,
	)

	return []domain.FaceRegion{
		{
			Image:      imaging.Crop(img, rect),
			Box:        domain.BoxFromRect(rect),
			Confidence: 0.99,
		},
	}, nil
}

// ExtractEmbedding gera embedding determinístico baseado no hash dos pixels
func (p *Provider) ExtractEmbedding(ctx context.Context, face image.Image) (domain.Embedding, error) {
	if err := ctx.Err(); err != nil {
		return domain.Embedding{}, err
	}

	rgb := imaging.ToRGB(face)
	if len(rgb.Pix) == 0 {
		return domain.Embedding{}, imaging.ErrEmptyImage
	}

	return domain.Embedding{Vector: generateEmbedding(rgb)}, nil
}

func generateEmbedding(img *image.RGBA) []float64 {
	h := sha256.New()
	var dims [8]byte
	binary.BigEndian.PutUint32(dims[:4], uint32(img.Rect.Dx()))
	binary.BigEndian.PutUint32(dims[4:], uint32(img.Rect.Dy()))
	h.Write(dims[:])
	h.Write(img.Pix)
	hash := h.Sum(nil)

	embedding := make([]float64, embeddingDimension)
	for i := range embedding {
		embedding[i] = (float64(hash[i%len(hash)])/255.0)*2 - 1
	}

	return matcher.Normalize(embedding)
}

var (
	_ provider.FaceDetector       = (*Provider)(nil)
	_ provider.EmbeddingExtractor = (*Provider)(nil)
)

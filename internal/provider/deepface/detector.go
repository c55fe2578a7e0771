package deepface

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/omran-mahr/Aspiro-AI/internal/domain"
	"github.com/omran-mahr/Aspiro-AI/internal/imaging"
	"github.com/omran-mahr/Aspiro-AI/internal/provider"
)

var _ provider.FaceDetector = (*Detector)(nil)

// Detector finds faces with the configured DeepFace detector backend and
// crops them locally from the full resolution image.
type Detector struct {
	client *Client
}

func NewDetector(client *Client) *Detector {
	return &Detector{client: client}
}

func (d *Detector) Name() string {
	return "deepface/" + d.client.config.Detector
}

func (d *Detector) DetectFaces(ctx context.Context, img image.Image) ([]domain.FaceRegion, error) {
	scaled, scale := imaging.Fit(img, d.client.config.MaxDimension)

	data, err := imaging.EncodeJPEG(scaled)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	resp, err := d.client.Represent(ctx, RepresentRequest{
		Img:              EncodeImage(data),
		DetectorBackend:  d.client.config.Detector,
		EnforceDetection: true,
		Align:            true,
	})
	if err != nil {
		if isFaceNotDetected(err) {
			return []domain.FaceRegion{}, nil
		}
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	origin := img.Bounds().Min
	regions := make([]domain.FaceRegion, 0, len(resp.Results))
	for _, result := range resp.Results {
		rect := toSourceRect(result.FacialArea, scale).Add(origin)
		crop := imaging.Crop(img, rect)
		if crop == nil {
			continue
		}

		regions = append(regions, domain.FaceRegion{
			Image:      crop,
			Box:        domain.BoxFromRect(rect.Intersect(img.Bounds())),
			Confidence: result.FaceConfidence,
		})
	}

	return regions, nil
}

// toSourceRect maps a facial area found on a scaled image back to the
// coordinates of the original.
func toSourceRect(area FacialArea, scale float64) image.Rectangle {
	if scale <= 0 {
		scale = 1
	}
	x1 := int(math.Floor(float64(area.X) / scale))
	y1 := int(math.Floor(float64(area.Y) / scale))
	x2 := int(math.Ceil(float64(area.X+area.W) / scale))
	y2 := int(math.Ceil(float64(area.Y+area.H) / scale))
	return image.Rect(x1, y1, x2, y2)
}

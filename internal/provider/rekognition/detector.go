package rekognition

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/omran-mahr/Aspiro-AI/internal/domain"
	"github.com/omran-mahr/Aspiro-AI/internal/imaging"
	"github.com/omran-mahr/Aspiro-AI/internal/provider"
)

var _ provider.FaceDetector = (*Detector)(nil)

// Detector implements provider.FaceDetector with the Rekognition DetectFaces
// API. Rekognition does not expose embeddings, so it only detects.
type Detector struct {
	api    DetectFacesAPI
	config Config
}

func NewDetector(api DetectFacesAPI, cfg Config) *Detector {
	return &Detector{api: api, config: cfg}
}

func (d *Detector) Name() string {
	return "rekognition"
}

func (d *Detector) DetectFaces(ctx context.Context, img image.Image) ([]domain.FaceRegion, error) {
	scaled, _ := imaging.Fit(img, d.config.MaxDimension)

	data, err := imaging.EncodeJPEG(scaled)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	output, err := d.api.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image:      &types.Image{Bytes: data},
		Attributes: []types.Attribute{types.AttributeDefault},
	})
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", mapError(err))
	}

	bounds := img.Bounds()
	regions := make([]domain.FaceRegion, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		if detail.BoundingBox == nil {
			continue
		}

		confidence := float32(0)
		if detail.Confidence != nil {
			confidence = *detail.Confidence
		}
		if confidence < d.config.MinConfidence {
			continue
		}

		// Ratios are relative to the image, so they map onto the original directly
		rect := ratioToRect(detail.BoundingBox, bounds)
		crop := imaging.Crop(img, rect)
		if crop == nil {
			continue
		}

		regions = append(regions, domain.FaceRegion{
			Image:      crop,
			Box:        domain.BoxFromRect(rect.Intersect(bounds)),
			Confidence: float64(confidence) / 100,
		})
	}

	return regions, nil
}

// ratioToRect converts a Rekognition bounding box (ratios of the image size,
// possibly negative at the edges) into pixel coordinates of bounds. The
// float32 ratios are snapped to 1e-4 px before floor/ceil so that 0.1 of
// 200px is 20, not 20.0000003 rounded up to 21.
func ratioToRect(box *types.BoundingBox, bounds image.Rectangle) image.Rectangle {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	ratio := func(v *float32) float64 {
		if v == nil {
			return 0
		}
		return float64(*v)
	}

	left := ratio(box.Left)
	top := ratio(box.Top)
	x1 := bounds.Min.X + int(math.Floor(snap(left*w)))
	y1 := bounds.Min.Y + int(math.Floor(snap(top*h)))
	x2 := bounds.Min.X + int(math.Ceil(snap((left+ratio(box.Width))*w)))
	y2 := bounds.Min.Y + int(math.Ceil(snap((top+ratio(box.Height))*h)))

	return image.Rect(x1, y1, x2, y2)
}

func snap(px float64) float64 {
	return math.Round(px*1e4) / 1e4
}

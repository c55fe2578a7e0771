package face

import (
	"context"
	"fmt"

	"github.com/omran-mahr/Aspiro-AI/internal/config"
	"github.com/omran-mahr/Aspiro-AI/internal/provider"
	"github.com/omran-mahr/Aspiro-AI/internal/provider/deepface"
	"github.com/omran-mahr/Aspiro-AI/internal/provider/mock"
	"github.com/omran-mahr/Aspiro-AI/internal/provider/rekognition"
)

// ProviderType defines supported face provider types
type ProviderType string

const (
	// ProviderTypeDeepFace is the DeepFace provider (local service, detects and extracts)
	ProviderTypeDeepFace ProviderType = config.ProviderDeepFace
	// ProviderTypeRekognition is the AWS Rekognition provider (cloud, detection only)
	ProviderTypeRekognition ProviderType = config.ProviderRekognition
	// ProviderTypeMock is the deterministic in-process provider for dev/test
	ProviderTypeMock ProviderType = config.ProviderMock
)

// NewDetector creates the FaceDetector selected by FACE_DETECTOR, falling
// back to FACE_PROVIDER.
//
// Environment variables:
//   - FACE_DETECTOR: "deepface", "rekognition" or "mock" (default: FACE_PROVIDER)
//   - DEEPFACE_URL, DEEPFACE_DETECTOR: DeepFace service settings
//   - AWS_REGION, REKOGNITION_MIN_CONFIDENCE: Rekognition settings
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY: via the AWS SDK credential chain
func NewDetector(ctx context.Context, cfg *config.Config) (provider.FaceDetector, error) {
	switch ProviderType(cfg.DetectorProvider()) {
	case ProviderTypeDeepFace, "":
		return deepface.NewDetector(newDeepFaceClient(cfg)), nil

	case ProviderTypeRekognition:
		return createRekognitionDetector(ctx, cfg)

	case ProviderTypeMock:
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown detector type: %s (supported: %s, %s, %s)",
			cfg.DetectorProvider(), ProviderTypeDeepFace, ProviderTypeRekognition, ProviderTypeMock)
	}
}

// NewExtractor creates the EmbeddingExtractor selected by FACE_PROVIDER.
// Rekognition does not expose embeddings and is rejected here.
func NewExtractor(cfg *config.Config) (provider.EmbeddingExtractor, error) {
	switch ProviderType(cfg.FaceProvider) {
	case ProviderTypeDeepFace, "":
		return deepface.NewExtractor(newDeepFaceClient(cfg)), nil

	case ProviderTypeMock:
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown extractor type: %s (supported: %s, %s)",
			cfg.FaceProvider, ProviderTypeDeepFace, ProviderTypeMock)
	}
}

func createRekognitionDetector(ctx context.Context, cfg *config.Config) (provider.FaceDetector, error) {
	rekogConfig := rekognition.DefaultConfig()
	if cfg.AWSRegion != "" {
		rekogConfig.Region = cfg.AWSRegion
	}
	if cfg.RekognitionMinConfidence > 0 {
		rekogConfig.MinConfidence = cfg.RekognitionMinConfidence
	}

	client, err := rekognition.NewClient(ctx, rekogConfig)
	if err != nil {
		return nil, fmt.Errorf("create rekognition detector: %w", err)
	}

	return rekognition.NewDetector(client, rekogConfig), nil
}

func newDeepFaceClient(cfg *config.Config) *deepface.Client {
	deepfaceConfig := deepface.DefaultConfig()

	// Use defaults for the remaining fields (timeout, retry, backoff)
	if cfg.DeepFaceURL != "" {
		deepfaceConfig.BaseURL = cfg.DeepFaceURL
	}
	if cfg.DeepFaceModel != "" {
		deepfaceConfig.Model = cfg.DeepFaceModel
	}
	if cfg.DeepFaceDetector != "" {
		deepfaceConfig.Detector = cfg.DeepFaceDetector
	}

	return deepface.NewClient(deepfaceConfig)
}

package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreMinIO    = "minio"
	StoreMemory   = "memory"

	ProviderDeepFace    = "deepface"
	ProviderRekognition = "rekognition"
	ProviderMock        = "mock"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`
	UploadDir   string `envconfig:"UPLOAD_DIR" default:"uploads"`
	LogLevel    string `envconfig:"LOG_LEVEL"`

	// Embedding store
	StoreBackend   string `envconfig:"STORE_BACKEND" default:"file"`
	EmbeddingsFile string `envconfig:"EMBEDDINGS_FILE" default:"database/embeddings.json"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`

	MinIOEndpoint  string `envconfig:"MINIO_ENDPOINT"`
	MinIOAccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `envconfig:"MINIO_SECRET_KEY"`
	MinIOBucket    string `envconfig:"MINIO_BUCKET" default:"aspiro"`
	MinIOObject    string `envconfig:"MINIO_OBJECT" default:"embeddings.json.zst"`
	MinIOUseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`

	// Face provider
	FaceProvider             string  `envconfig:"FACE_PROVIDER" default:"deepface"`
	FaceDetector             string  `envconfig:"FACE_DETECTOR"`
	DeepFaceURL              string  `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`
	DeepFaceModel            string  `envconfig:"DEEPFACE_MODEL" default:"Facenet512"`
	DeepFaceDetector         string  `envconfig:"DEEPFACE_DETECTOR" default:"retinaface"`
	AWSRegion                string  `envconfig:"AWS_REGION" default:"us-east-1"`
	RekognitionMinConfidence float32 `envconfig:"REKOGNITION_MIN_CONFIDENCE" default:"90"`
	MatchThreshold           float64 `envconfig:"MATCH_THRESHOLD" default:"0.5"`

	// Advisor
	LLMProvider    string        `envconfig:"LLM_PROVIDER" default:"gemini"`
	GeminiAPIKey   string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel    string        `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	OpenAIAPIKey   string        `envconfig:"OPENAI_API_KEY"`
	OpenAIModel    string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	AdviceCacheTTL time.Duration `envconfig:"ADVICE_CACHE_TTL" default:"24h"`

	// Webhook for registration and attendance events
	WebhookURL    string `envconfig:"WEBHOOK_URL"`
	WebhookSecret string `envconfig:"WEBHOOK_SECRET"`

	// Rate limiting
	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"120"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreFile:
		if c.EmbeddingsFile == "" {
			return fmt.Errorf("EMBEDDINGS_FILE is required for the file store")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	case StoreMinIO:
		if c.MinIOEndpoint == "" || c.MinIOBucket == "" {
			return fmt.Errorf("MINIO_ENDPOINT and MINIO_BUCKET are required for the minio store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.MatchThreshold <= 0 || c.MatchThreshold > 2 {
		return fmt.Errorf("MATCH_THRESHOLD must be in (0, 2], got %v", c.MatchThreshold)
	}

	switch c.FaceProvider {
	case ProviderDeepFace, ProviderMock:
	case ProviderRekognition:
		return fmt.Errorf("FACE_PROVIDER %q cannot extract embeddings, set it as FACE_DETECTOR instead", c.FaceProvider)
	default:
		return fmt.Errorf("unknown FACE_PROVIDER %q", c.FaceProvider)
	}

	switch c.DetectorProvider() {
	case ProviderDeepFace, ProviderRekognition, ProviderMock:
	default:
		return fmt.Errorf("unknown FACE_DETECTOR %q", c.FaceDetector)
	}

	switch c.LLMProvider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasDatabase reports whether a Postgres connection is configured, either as
// the embedding store or for the advice cache.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

// DetectorProvider returns the provider used for face detection, which
// defaults to the embedding provider.
func (c *Config) DetectorProvider() string {
	if c.FaceDetector != "" {
		return c.FaceDetector
	}
	return c.FaceProvider
}

package rekognition

// Config holds configuration for the AWS Rekognition face detector
type Config struct {
	// Region is the AWS region where Rekognition service will be used (e.g., "us-east-1")
	Region string

	// MinConfidence drops detections below this confidence (0-100)
	MinConfidence float32

	// MaxDimension caps the longest side of the image sent to AWS, which
	// accepts at most 5MB of image bytes.
	MaxDimension int
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		Region:        "us-east-1",
		MinConfidence: 90,
		MaxDimension:  1920,
	}
}

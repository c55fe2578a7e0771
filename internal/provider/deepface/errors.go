package deepface

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDeepFaceUnavailable = errors.New("deepface service unavailable")
	ErrInvalidResponse     = errors.New("invalid response from deepface")
	ErrNoFaceInResponse    = errors.New("no face data in deepface response")
)

// StatusError is returned when DeepFace answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("deepface returned status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether retrying the request can help.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// isFaceNotDetected recognises the error DeepFace raises when
// enforce_detection is on and the image holds no face.
func isFaceNotDetected(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode >= 500 {
		return false
	}
	return strings.Contains(strings.ToLower(se.Body), "could not be detected")
}

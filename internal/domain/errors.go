package domain

import (
	"context"
	"errors"
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so errors.Is works on
// values produced by WithError.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// WithMessage returns a copy with a caller-facing message.
func (e *AppError) WithMessage(msg string) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    msg,
		StatusCode: e.StatusCode,
		Err:        e.Err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrInvalidInput = &AppError{
		Code:       "INVALID_INPUT",
		Message:    "Invalid input",
		StatusCode: 400,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 422,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded, please try again later",
		StatusCode: 429,
	}

	// Face recognition errors
	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face detected in the image",
		StatusCode: 422,
	}

	ErrExtractionFailed = &AppError{
		Code:       "EXTRACTION_FAILED",
		Message:    "Failed to extract face embedding",
		StatusCode: 422,
	}

	ErrNoRecognizedFaces = &AppError{
		Code:       "NO_RECOGNIZED_FACES",
		Message:    "No recognized faces found",
		StatusCode: 404,
	}

	ErrStorageRead = &AppError{
		Code:       "STORAGE_READ_ERROR",
		Message:    "Failed to read embedding store",
		StatusCode: 500,
	}

	ErrStorageWrite = &AppError{
		Code:       "STORAGE_WRITE_ERROR",
		Message:    "Failed to write embedding store",
		StatusCode: 500,
	}

	// Resume and advisor errors
	ErrUnsupportedDocument = &AppError{
		Code:       "UNSUPPORTED_DOCUMENT",
		Message:    "Unsupported document format",
		StatusCode: 415,
	}

	ErrLLMUnavailable = &AppError{
		Code:       "LLM_UNAVAILABLE",
		Message:    "Language model is unavailable, please try again later",
		StatusCode: 502,
	}

	// Request lifecycle errors. 499 is the de facto "client closed request".
	ErrRequestCanceled = &AppError{
		Code:       "REQUEST_CANCELED",
		Message:    "Request was canceled",
		StatusCode: 499,
	}

	ErrRequestTimeout = &AppError{
		Code:       "REQUEST_TIMEOUT",
		Message:    "Request timed out",
		StatusCode: 504,
	}
)

// FromContext maps context.Canceled and context.DeadlineExceeded onto their
// AppError; the original error stays reachable through errors.Is. Any other
// error, nil included, is returned unchanged.
func FromContext(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return ErrRequestCanceled.WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return ErrRequestTimeout.WithError(err)
	default:
		return err
	}
}

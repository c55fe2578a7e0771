package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/omran-mahr/Aspiro-AI/internal/audit"
	"github.com/omran-mahr/Aspiro-AI/internal/domain"
)

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
)

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/gif":  true,
	"image/tiff": true,
}

// FaceService interface for the service
type FaceService interface {
	Register(ctx context.Context, name string, imageBytes []byte) (*domain.Registration, error)
	Recognize(ctx context.Context, imageBytes []byte) (*domain.Recognition, error)
}

// FaceHandler handles face registration and attendance requests
type FaceHandler struct {
	service FaceService
	logger  *slog.Logger
}

// NewFaceHandler creates a new FaceHandler instance
func NewFaceHandler(service FaceService, logger *slog.Logger) *FaceHandler {
	return &FaceHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterResponse response for register endpoint
type RegisterResponse struct {
	Name        string             `json:"name"`
	Embeddings  int                `json:"embeddings"`
	BoundingBox domain.BoundingBox `json:"bounding_box"`
	FacesFound  int                `json:"faces_found"`
	Message     string             `json:"message"`
}

// Register POST /v1/faces - add a face to the gallery
func (h *FaceHandler) Register(c *fiber.Ctx) error {
	// 1. Extract name from form, query fallback for older clients
	name := c.FormValue("name")
	if strings.TrimSpace(name) == "" {
		name = c.Query("student_name")
	}
	if strings.TrimSpace(name) == "" {
		return domain.ErrInvalidInput.WithMessage("name is required")
	}

	// 2. Extract and validate image
	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("register face: %w", err)
	}

	// 3. Call service to register
	reg, err := h.service.Register(clientContext(c), name, imageBytes)
	if err != nil {
		return err
	}

	// 4. Return response
	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{
		Name:        reg.Name,
		Embeddings:  reg.Embeddings,
		BoundingBox: reg.BoundingBox,
		FacesFound:  reg.FacesFound,
		Message:     fmt.Sprintf("Face for %s added successfully.", reg.Name),
	})
}

// Attendance POST /v1/attendance - recognize every face in a group photo
func (h *FaceHandler) Attendance(c *fiber.Ctx) error {
	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("process attendance: %w", err)
	}

	recognition, err := h.service.Recognize(clientContext(c), imageBytes)
	if err != nil {
		return err
	}

	return c.JSON(recognition)
}

// clientContext carries the caller's address into audit events
func clientContext(c *fiber.Ctx) context.Context {
	return audit.WithClient(c.UserContext(), c.IP(), c.Get(fiber.HeaderUserAgent))
}

// extractAndValidateImage extracts and validates the image from the form
func extractAndValidateImage(c *fiber.Ctx) ([]byte, error) {
	// 1. Extract file
	file, err := c.FormFile("image")
	if err != nil {
		return nil, domain.ErrInvalidInput.WithMessage("image file is required")
	}

	// 2. Validate size
	if file.Size > maxImageSize {
		return nil, domain.ErrInvalidImage.WithMessage("image exceeds 10MB")
	}

	if file.Size == 0 {
		return nil, domain.ErrInvalidImage.WithMessage("image is empty")
	}

	// 3. Validate Content-Type
	contentType := file.Header.Get("Content-Type")
	if !validImageTypes[contentType] {
		return nil, domain.ErrInvalidImage.WithMessage("unsupported image type " + contentType)
	}

	// 4. Read image bytes
	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return imageBytes, nil
}

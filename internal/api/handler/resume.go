package handler

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/omran-mahr/Aspiro-AI/internal/domain"
	"github.com/omran-mahr/Aspiro-AI/internal/resume"
)

const maxDocumentSize = 10 * 1024 * 1024 // 10MB

// ResumeScorer scores an uploaded resume against a job description
type ResumeScorer interface {
	Score(ctx context.Context, doc resume.Document, jobDesc *resume.Document) (*resume.Result, error)
}

type ResumeHandler struct {
	scorer ResumeScorer
}

func NewResumeHandler(scorer ResumeScorer) *ResumeHandler {
	return &ResumeHandler{scorer: scorer}
}

// Score POST /v1/resumes/score - keyword match of a resume against a job description
func (h *ResumeHandler) Score(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return domain.ErrInvalidInput.WithMessage("resume file is required")
	}
	doc, err := readDocument(file)
	if err != nil {
		return err
	}

	var jobDesc *resume.Document
	jdFile, err := c.FormFile("job_description")
	if err != nil {
		jdFile, err = c.FormFile("job_desc")
	}
	if err == nil {
		jd, err := readDocument(jdFile)
		if err != nil {
			return err
		}
		jobDesc = &jd
	}

	result, err := h.scorer.Score(clientContext(c), doc, jobDesc)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func readDocument(file *multipart.FileHeader) (resume.Document, error) {
	if file.Size > maxDocumentSize {
		return resume.Document{}, domain.ErrInvalidInput.WithMessage("document exceeds 10MB")
	}

	f, err := file.Open()
	if err != nil {
		return resume.Document{}, domain.ErrInvalidInput.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return resume.Document{}, domain.ErrInvalidInput.WithError(err)
	}

	return resume.Document{Filename: file.Filename, Data: data}, nil
}

package resume

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/omran-mahr/Aspiro-AI/internal/audit"
	"github.com/omran-mahr/Aspiro-AI/internal/domain"
)

// Document is an uploaded file
type Document struct {
	Filename string
	Data     []byte
}

// Result reports where the uploads were saved and the resume score
type Result struct {
	ResumePath         string  `json:"resume_saved_at"`
	JobDescriptionPath *string `json:"job_desc_saved_at"`
	Score              float64 `json:"score"`
}

type Scorer struct {
	uploads *Uploads
	logger  *slog.Logger
	audit   audit.Logger
}

func NewScorer(uploads *Uploads, logger *slog.Logger) *Scorer {
	return &Scorer{
		uploads: uploads,
		logger:  logger.With("component", "resume_scorer"),
		audit:   &audit.NoOpLogger{},
	}
}

func (s *Scorer) WithAuditLogger(logger audit.Logger) *Scorer {
	s.audit = logger
	return s
}

// Score saves both uploads and scores the resume against jobDesc, or against
// DefaultJobDescription when jobDesc is nil.
func (s *Scorer) Score(ctx context.Context, resume Document, jobDesc *Document) (*Result, error) {
	if len(resume.Data) == 0 {
		return nil, domain.ErrInvalidInput.WithMessage("resume file is required")
	}

	resumePath, err := s.uploads.Save(resume.Filename, resume.Data)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to save resume", slog.String("error", err.Error()))
		return nil, domain.ErrInternal.WithError(err)
	}
	result := &Result{ResumePath: resumePath}

	jobText := DefaultJobDescription
	if jobDesc != nil {
		jdPath, err := s.uploads.Save(jobDesc.Filename, jobDesc.Data)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to save job description", slog.String("error", err.Error()))
			return nil, domain.ErrInternal.WithError(err)
		}
		result.JobDescriptionPath = &jdPath

		if jobText, err = ExtractText(jobDesc.Filename, jobDesc.Data); err != nil {
			return nil, err
		}
	}

	resumeText, err := ExtractText(resume.Filename, resume.Data)
	if err != nil {
		return nil, err
	}

	jobTokens := Tokenize(jobText)
	resumeTokens := Tokenize(resumeText)
	result.Score = Score(jobTokens, resumeTokens)

	if err := s.audit.Log(ctx, audit.Event{
		EventType: audit.EventResumeScored,
		Provider:  "keyword",
		Success:   true,
		Metadata: map[string]string{
			"score":      strconv.FormatFloat(result.Score, 'f', 2, 64),
			"job_tokens": strconv.Itoa(len(jobTokens)),
		},
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to write audit event", slog.String("error", err.Error()))
	}

	return result, nil
}

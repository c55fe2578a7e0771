package advisor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/omran-mahr/Aspiro-AI/internal/domain"
)

const fallbackReply = "I'm sorry, I don't understand. Can you please rephrase?"

// Cache stores generated answers (the Postgres cache)
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type Service struct {
	generator Generator
	cache     Cache
	ttl       time.Duration
	logger    *slog.Logger
}

func NewService(generator Generator, logger *slog.Logger) *Service {
	return &Service{
		generator: generator,
		logger:    logger.With("component", "advisor", "model", generator.Name()),
	}
}

// WithCache caches skill and roadmap answers for ttl
func (s *Service) WithCache(cache Cache, ttl time.Duration) *Service {
	s.cache = cache
	s.ttl = ttl
	return s
}

// Chat responde como mentor; uma resposta vazia vira a mensagem padrão.
func (s *Service) Chat(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrInvalidInput.WithMessage("text is required")
	}

	prompt := "You are a helpful mentor chatbot. Respond to the following in a supportive, educational, and engaging way: " + text
	reply, err := s.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return fallbackReply, nil
	}
	return reply, nil
}

// RecommendSkills returns the skills for a job as a comma-separated list
func (s *Service) RecommendSkills(ctx context.Context, jobName string) (string, error) {
	jobName = strings.TrimSpace(jobName)
	if jobName == "" {
		return "", domain.ErrInvalidInput.WithMessage("job_name is required")
	}

	prompt := fmt.Sprintf("List the most important skills required for the job of %s. Return the skills in a comma-separated list.", jobName)
	reply, err := s.cached(ctx, "skills", prompt)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return "", domain.ErrNotFound.WithMessage("No skills found, please rephrase your request.")
	}
	return strings.ReplaceAll(reply, "\n", ", "), nil
}

// CareerGuidance returns a plaintext career roadmap
func (s *Service) CareerGuidance(ctx context.Context, skills, interests []string) (string, error) {
	if len(skills) == 0 && len(interests) == 0 {
		return "", domain.ErrInvalidInput.WithMessage("skills or interests are required")
	}

	prompt := fmt.Sprintf(
		"Given the following skills: %s and interests: %s, provide a career roadmap in plaintext to help the user develop professionally. Make sure to not use markdown formatting",
		strings.Join(skills, ", "), strings.Join(interests, ", "),
	)
	reply, err := s.cached(ctx, "roadmap", prompt)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return "", domain.ErrNotFound.WithMessage("No roadmap found, please rephrase your request.")
	}
	return reply, nil
}

// cached looks the prompt up before generating. Cache failures only cost a
// model call; empty answers are not cached.
func (s *Service) cached(ctx context.Context, kind, prompt string) (string, error) {
	if s.cache == nil {
		return s.generate(ctx, prompt)
	}

	key := cacheKey(s.generator.Name(), kind, prompt)
	if value, err := s.cache.Get(ctx, key); err == nil {
		return string(value), nil
	}

	reply, err := s.generate(ctx, prompt)
	if err != nil || reply == "" {
		return reply, err
	}

	if err := s.cache.Set(ctx, key, []byte(reply), s.ttl); err != nil {
		s.logger.WarnContext(ctx, "failed to cache advice", slog.String("error", err.Error()))
	}
	return reply, nil
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		s.logger.ErrorContext(ctx, "language model request failed", slog.String("error", err.Error()))
		return "", domain.ErrLLMUnavailable.WithError(err)
	}
	return strings.TrimSpace(reply), nil
}

func cacheKey(model, kind, prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "advice:" + model + ":" + kind + ":" + hex.EncodeToString(sum[:])
}

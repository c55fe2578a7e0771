package handler

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/omran-mahr/Aspiro-AI/internal/domain"
)

// Advisor answers mentoring questions through an LLM
type Advisor interface {
	Chat(ctx context.Context, text string) (string, error)
	RecommendSkills(ctx context.Context, jobName string) (string, error)
	CareerGuidance(ctx context.Context, skills, interests []string) (string, error)
}

type AdvisorHandler struct {
	advisor Advisor
}

func NewAdvisorHandler(advisor Advisor) *AdvisorHandler {
	return &AdvisorHandler{advisor: advisor}
}

type ChatRequest struct {
	Text string `json:"text"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type SkillsRequest struct {
	JobName string `json:"job_name"`
}

type SkillsResponse struct {
	Skills string `json:"skills"`
}

type CareerRequest struct {
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
}

type CareerResponse struct {
	Roadmap string `json:"roadmap"`
}

// Chat POST /v1/chat
func (h *AdvisorHandler) Chat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if strings.TrimSpace(req.Text) == "" {
		return domain.ErrInvalidInput.WithMessage("text is required")
	}

	reply, err := h.advisor.Chat(c.UserContext(), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(ChatResponse{Response: reply})
}

// RecommendSkills POST /v1/skills/recommend
func (h *AdvisorHandler) RecommendSkills(c *fiber.Ctx) error {
	var req SkillsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if strings.TrimSpace(req.JobName) == "" {
		return domain.ErrInvalidInput.WithMessage("job_name is required")
	}

	skills, err := h.advisor.RecommendSkills(c.UserContext(), req.JobName)
	if err != nil {
		return err
	}
	return c.JSON(SkillsResponse{Skills: skills})
}

// CareerGuidance POST /v1/career/guidance
func (h *AdvisorHandler) CareerGuidance(c *fiber.Ctx) error {
	var req CareerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	roadmap, err := h.advisor.CareerGuidance(c.UserContext(), req.Skills, req.Interests)
	if err != nil {
		return err
	}
	return c.JSON(CareerResponse{Roadmap: roadmap})
}

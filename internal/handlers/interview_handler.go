package handlers

import (
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ai-interviewer/internal/auth"
	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/services"
)

type InterviewHandler struct {
	interviewService services.InterviewService
}

func NewInterviewHandler(interviewService services.InterviewService) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
	}
}

// HandleStart handles POST /interview/start
func (h *InterviewHandler) HandleStart(c *fiber.Ctx) error {
	var req models.StartInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	if msg := validateProfile(req.Profile); msg != "" {
		return fail(c, fiber.StatusBadRequest, msg)
	}

	payload, err := h.interviewService.StartInterview(c.UserContext(), req.Profile, auth.OwnerID(c))
	if err != nil {
		return h.serviceError(c, err, "Failed to start interview")
	}

	return respond(c, fiber.StatusOK, "Interview started", payload)
}

// HandleAnswer handles POST /interview/answer
func (h *InterviewHandler) HandleAnswer(c *fiber.Ctx) error {
	var req models.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	if strings.TrimSpace(req.SessionID) == "" {
		return fail(c, fiber.StatusBadRequest, "sessionId is required")
	}

	result, err := h.interviewService.SubmitAnswer(c.UserContext(), models.SubmitAnswerInput{
		SessionID: req.SessionID,
		Answer:    req.Answer,
		OwnerID:   auth.OwnerID(c),
	})
	if err != nil {
		return h.serviceError(c, err, "Failed to submit answer")
	}

	if result.Completed != nil {
		return respond(c, fiber.StatusOK, "Interview completed", result.Completed)
	}
	return respond(c, fiber.StatusOK, "Answer submitted", result.Next)
}

// HandleGetSession handles GET /interview/:id
func (h *InterviewHandler) HandleGetSession(c *fiber.Ctx) error {
	session, err := h.interviewService.GetSession(c.Params("id"))
	if err != nil {
		return h.serviceError(c, err, "Failed to load interview")
	}

	// A session started by a signed-in user is only visible to that user.
	if session.OwnerID != "" && session.OwnerID != auth.OwnerID(c) {
		return fail(c, fiber.StatusNotFound, services.ErrSessionNotFound.Error())
	}

	return respond(c, fiber.StatusOK, "", session.View())
}

func (h *InterviewHandler) serviceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrSessionNotActive):
		return fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidProfile):
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	log.Printf("❌ %s: %v\n", fallback, err)
	return fail(c, fiber.StatusInternalServerError, fallback)
}

func validateProfile(profile *models.CandidateProfile) string {
	if profile == nil {
		return "Profile is required"
	}
	if utf8.RuneCountInString(strings.TrimSpace(profile.Name)) < 2 {
		return "Name must be at least 2 characters"
	}
	if strings.TrimSpace(profile.Email) == "" {
		return "Email is required"
	}
	if len(profile.Skills) == 0 {
		return "At least one skill is required"
	}
	return ""
}

package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/auth"
	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
	"alfredoptarigan/ai-interviewer/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ResultHandler struct {
	resultsRepo   repositories.TestResultRepository
	exportService services.ExportService
}

func NewResultHandler(resultsRepo repositories.TestResultRepository, exportService services.ExportService) *ResultHandler {
	return &ResultHandler{
		resultsRepo:   resultsRepo,
		exportService: exportService,
	}
}

// HandleList handles GET /results
func (h *ResultHandler) HandleList(c *fiber.Ctx) error {
	results, err := h.resultsRepo.FindByOwner(c.UserContext(), auth.OwnerID(c))
	if err != nil {
		log.Printf("❌ Failed to list results: %v\n", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to load test results")
	}
	if results == nil {
		results = []models.TestResult{}
	}

	return respond(c, fiber.StatusOK, "", results)
}

// HandleGetResult handles GET /results/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	resultID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid result ID format")
	}

	result, err := h.resultsRepo.FindByID(c.UserContext(), auth.OwnerID(c), resultID)
	if err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return fail(c, fiber.StatusNotFound, "Test result not found")
		}
		log.Printf("❌ Failed to load result %s: %v\n", resultID, err)
		return fail(c, fiber.StatusInternalServerError, "Failed to load test result")
	}

	return respond(c, fiber.StatusOK, "", result)
}

// HandleExport handles GET /results/export
func (h *ResultHandler) HandleExport(c *fiber.Ctx) error {
	data, err := h.exportService.ExportResultsXLSX(c.UserContext(), auth.OwnerID(c))
	if err != nil {
		log.Printf("❌ Failed to export results: %v\n", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to export test results")
	}

	filename := fmt.Sprintf("interview-results-%s.xlsx", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Status(fiber.StatusOK).Send(data)
}

package handlers

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ai-interviewer/internal/services"
)

type UploadHandler struct {
	storageService services.StorageService
	extractor      services.DocumentExtractor
	parser         *services.ResumeParser
	maxFileSize    int64
}

func NewUploadHandler(
	storageService services.StorageService,
	extractor services.DocumentExtractor,
	parser *services.ResumeParser,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		storageService: storageService,
		extractor:      extractor,
		parser:         parser,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /resume/upload
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "No file uploaded")
	}

	mimeType := file.Header.Get(fiber.HeaderContentType)
	if !services.IsSupportedMimeType(mimeType) {
		return fail(c, fiber.StatusBadRequest, services.ErrUnsupportedFileType.Error())
	}

	if h.maxFileSize > 0 && file.Size > h.maxFileSize {
		return fail(c, fiber.StatusBadRequest, fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize))
	}

	// The upload only lives on disk while it is being read.
	filePath, err := h.storageService.SaveUpload(file)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFileType) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		log.Printf("❌ Failed to save resume: %v\n", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to parse resume")
	}
	defer func() {
		if err := h.storageService.DeleteFile(filePath); err != nil {
			log.Printf("⚠️  Failed to delete temporary upload %s: %v\n", filePath, err)
		}
	}()

	data, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("❌ Failed to read resume: %v\n", err)
		return fail(c, fiber.StatusInternalServerError, "Failed to parse resume")
	}

	text, err := h.extractor.Extract(data, mimeType)
	if err != nil {
		log.Printf("⚠️  Failed to extract resume text: %v\n", err)
		if errors.Is(err, services.ErrEmptyDocument) || errors.Is(err, services.ErrUnsupportedFileType) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return fail(c, fiber.StatusBadRequest, "Failed to extract text from file")
	}

	return respond(c, fiber.StatusOK, "Resume parsed successfully", h.parser.Parse(text))
}

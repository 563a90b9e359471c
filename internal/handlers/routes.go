package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ai-interviewer/internal/auth"
)

// Routes groups everything RegisterRoutes mounts under /api/v1.
type Routes struct {
	Upload    *UploadHandler
	Interview *InterviewHandler
	Result    *ResultHandler
	JWT       *auth.JWTService
}

func RegisterRoutes(app *fiber.App, r Routes) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/resume/upload", r.Upload.HandleUpload)

	interview := api.Group("/interview", auth.OptionalAuth(r.JWT))
	interview.Post("/start", r.Interview.HandleStart)
	interview.Post("/answer", r.Interview.HandleAnswer)
	interview.Get("/:id", r.Interview.HandleGetSession)

	// export is registered before :id so it is not read as a result id.
	results := api.Group("/results", auth.RequireAuth(r.JWT))
	results.Get("/", r.Result.HandleList)
	results.Get("/export", r.Result.HandleExport)
	results.Get("/:id", r.Result.HandleGetResult)
}

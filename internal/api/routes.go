package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Get("/me", handler.AuthRequired, handler.Me)
	auth.Post("/change-password", handler.AuthRequired, handler.ChangePassword)

	api.Post("/onboarding/complete", handler.AuthRequired, handler.CompleteOnboarding)

	api.Get("/symptoms", handler.AuthRequired, handler.GetSymptoms)

	periods := api.Group("/periods", handler.AuthRequired, handler.OnboardingRequired)
	periods.Get("", handler.ListPeriods)
	periods.Get("/active", handler.GetActivePeriod)
	periods.Post("/active/symptoms", handler.AttachSymptoms)
	periods.Patch("/:id", handler.UpdatePeriod)
	periods.Delete("/:id/symptoms", handler.ClearSymptoms)
	periods.Delete("/:id/symptoms/:name", handler.RemoveSymptom)

	stats := api.Group("/stats", handler.AuthRequired, handler.OnboardingRequired)
	stats.Get("/symptoms", handler.GetSymptomStats)

	api.Get("/export/csv", handler.AuthRequired, handler.OnboardingRequired, handler.ExportCSV)
}

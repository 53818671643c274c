package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/sitepulse/sitepulse/internal/config"
	"github.com/sitepulse/sitepulse/internal/service/pagespeed"
)

// AnalysisHandler handles performance analysis requests
type AnalysisHandler struct {
	Service *pagespeed.Service
	Config  *config.Config
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service *pagespeed.Service, cfg *config.Config) *AnalysisHandler {
	return &AnalysisHandler{
		Service: service,
		Config:  cfg,
	}
}

// CompareRequest represents a request to compare device profiles
type CompareRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// Analyze runs a single-strategy audit for the submitted URL
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	in := new(pagespeed.AnalyzeInput)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   string(pagespeed.KindMissingInput),
			"message": "invalid request body: " + err.Error(),
		})
	}

	report, err := h.Service.Analyze(c.UserContext(), *in)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    report,
	})
}

// Compare runs mobile and desktop audits for the submitted URL and reports
// both outcomes, success or failure, independently
func (h *AnalysisHandler) Compare(c *fiber.Ctx) error {
	req := new(CompareRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   string(pagespeed.KindMissingInput),
			"message": "invalid request body: " + err.Error(),
		})
	}

	result, err := h.Service.Compare(c.UserContext(), req.URL)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"url":       result.URL,
		"timestamp": result.Timestamp,
		"data":      result,
	})
}

// respondError maps a classified error to the failure envelope. Unclassified
// errors are logged and surfaced as the generic internal kind.
func respondError(c *fiber.Ctx, err error) error {
	var classified *pagespeed.Error
	if errors.As(err, &classified) {
		if classified.Kind == pagespeed.KindInternal || classified.Kind == pagespeed.KindMalformedPayload {
			log.Printf("analysis error: %v", err)
		}
		body := fiber.Map{
			"success": false,
			"error":   string(classified.Kind),
			"message": classified.Message,
		}
		if len(classified.Details) > 0 {
			body["details"] = classified.Details
		}
		return c.Status(classified.Status).JSON(body)
	}

	log.Printf("unclassified analysis error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   string(pagespeed.KindInternal),
		"message": "internal server error",
	})
}

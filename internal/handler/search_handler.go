package handler

import (
	"net/http"
	"strconv"
	"time"

	"lead-service/internal/model"
	"lead-service/pkg/database"
	"lead-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const defaultSearchLimit = 30

// SearchResult is the lightweight lead projection returned by the search
// endpoint
type SearchResult struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	Products    []int     `json:"products"`
}

// SearchLeads filters leads by status and an optional free-text query
// matched case-insensitively against name, email and phone number.
// status defaults to pending; "all" disables the status filter.
func SearchLeads(c echo.Context) error {
	log := logger.FromEcho(c)

	q := c.QueryParam("q")
	status := c.QueryParam("status")
	if status == "" {
		status = model.StatusPending
	}

	limit := defaultSearchLimit
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	query := database.GetDB().Model(&model.Lead{})
	if status != "all" {
		query = query.Where("status = ?", status)
	}
	if q != "" {
		pattern := "%" + q + "%"
		query = query.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR LOWER(phone_number) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}

	var leads []model.Lead
	if result := query.Order("created_at DESC").Limit(limit).Find(&leads); result.Error != nil {
		log.Error("Failed to search leads", zap.String("q", q), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to search leads"})
	}

	results := make([]SearchResult, 0, len(leads))
	for _, lead := range leads {
		results = append(results, SearchResult{
			ID:          lead.ID,
			Name:        lead.Name,
			Email:       lead.Email,
			PhoneNumber: lead.PhoneNumber,
			Status:      lead.Status,
			CreatedAt:   lead.CreatedAt,
			Products:    lead.ProductsInterest(),
		})
	}

	log.Info("Lead search completed",
		zap.String("q", q),
		zap.String("status", status),
		zap.Int("count", len(results)))
	return c.JSON(http.StatusOK, results)
}

package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"lead-service/internal/model"
	"lead-service/pkg/database"
	"lead-service/pkg/logger"
	"lead-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PageAccessRequest is the inbound page view/event payload
type PageAccessRequest struct {
	PageURL      string                 `json:"page_url"`
	PageTitle    string                 `json:"page_title"`
	Section      string                 `json:"section"`
	UserID       string                 `json:"user_id"`
	SessionID    string                 `json:"session_id"`
	UserAgent    string                 `json:"user_agent"`
	DeviceType   string                 `json:"device_type"`
	Browser      string                 `json:"browser"`
	OS           string                 `json:"os"`
	Country      string                 `json:"country"`
	City         string                 `json:"city"`
	TimeOnPage   int                    `json:"time_on_page"`
	ScrollDepth  int                    `json:"scroll_depth"`
	Interactions int                    `json:"interactions"`
	Referrer     string                 `json:"referrer"`
	UTMSource    string                 `json:"utm_source"`
	UTMMedium    string                 `json:"utm_medium"`
	UTMCampaign  string                 `json:"utm_campaign"`
	Metadata     map[string]interface{} `json:"metadata"`
}

// PageAccessResponse mirrors the stored record with the metadata document
// decoded back into JSON
type PageAccessResponse struct {
	ID           uint            `json:"id"`
	PageURL      string          `json:"page_url"`
	PageTitle    string          `json:"page_title"`
	Section      string          `json:"section"`
	UserID       string          `json:"user_id"`
	SessionID    string          `json:"session_id"`
	DeviceType   string          `json:"device_type"`
	Browser      string          `json:"browser"`
	OS           string          `json:"os"`
	Country      string          `json:"country"`
	City         string          `json:"city"`
	TimeOnPage   int             `json:"time_on_page"`
	ScrollDepth  int             `json:"scroll_depth"`
	Interactions int             `json:"interactions"`
	Referrer     string          `json:"referrer"`
	UTMSource    string          `json:"utm_source"`
	UTMMedium    string          `json:"utm_medium"`
	UTMCampaign  string          `json:"utm_campaign"`
	EventType    string          `json:"event_type"`
	Metadata     json.RawMessage `json:"metadata"`
	CreatedAt    time.Time       `json:"created_at"`
}

func newPageAccessResponse(access model.PageAccess) PageAccessResponse {
	metadata := json.RawMessage(`{}`)
	if access.Metadata != "" {
		metadata = json.RawMessage(access.Metadata)
	}
	return PageAccessResponse{
		ID:           access.ID,
		PageURL:      access.PageURL,
		PageTitle:    access.PageTitle,
		Section:      access.Section,
		UserID:       access.UserID,
		SessionID:    access.SessionID,
		DeviceType:   access.DeviceType,
		Browser:      access.Browser,
		OS:           access.OS,
		Country:      access.Country,
		City:         access.City,
		TimeOnPage:   access.TimeOnPage,
		ScrollDepth:  access.ScrollDepth,
		Interactions: access.Interactions,
		Referrer:     access.Referrer,
		UTMSource:    access.UTMSource,
		UTMMedium:    access.UTMMedium,
		UTMCampaign:  access.UTMCampaign,
		EventType:    access.EventType,
		Metadata:     metadata,
		CreatedAt:    access.CreatedAt,
	}
}

// PageCount is one entry of a most-visited breakdown
type PageCount struct {
	PageURL string `json:"page_url"`
	Views   int64  `json:"views"`
}

// SectionCount is one entry of a most-visited section breakdown
type SectionCount struct {
	Section string `json:"section"`
	Views   int64  `json:"views"`
}

// AnalyticsSummary is the aggregate page analytics document
type AnalyticsSummary struct {
	TotalPageViews      int64            `json:"total_page_views"`
	UniqueVisitors      int64            `json:"unique_visitors"`
	AvgSessionDuration  float64          `json:"avg_session_duration"`
	BounceRate          float64          `json:"bounce_rate"`
	TopPages            []PageCount      `json:"top_pages"`
	TopSections         []SectionCount   `json:"top_sections"`
	DeviceDistribution  map[string]int64 `json:"device_distribution"`
	BrowserDistribution map[string]int64 `json:"browser_distribution"`
	EcommerceEvents     map[string]int64 `json:"ecommerce_events"`
}

// AnalyticsTrendPoint is one day of the page analytics trend
type AnalyticsTrendPoint struct {
	Date           string  `json:"date"`
	PageViews      int64   `json:"page_views"`
	UniqueVisitors int64   `json:"unique_visitors"`
	AvgTimeOnPage  float64 `json:"avg_time_on_page"`
	BounceRate     float64 `json:"bounce_rate"`
}

// SectionAnalytics is the per-section engagement breakdown
type SectionAnalytics struct {
	SectionName      string  `json:"section_name"`
	TotalViews       int64   `json:"total_views"`
	AvgTimeOnSection float64 `json:"avg_time_on_section"`
	EngagementRate   float64 `json:"engagement_rate"`
	ConversionRate   float64 `json:"conversion_rate"`
}

// CreatePageAccess captures a page view or storefront event
func CreatePageAccess(c echo.Context) error {
	log := logger.FromEcho(c)

	var req PageAccessRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.PageURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": map[string][]string{"page_url": {"is required"}}})
	}

	access := model.PageAccess{
		PageURL:      req.PageURL,
		PageTitle:    req.PageTitle,
		Section:      req.Section,
		UserID:       req.UserID,
		SessionID:    req.SessionID,
		UserAgent:    req.UserAgent,
		DeviceType:   req.DeviceType,
		Browser:      req.Browser,
		OS:           req.OS,
		IPAddress:    c.RealIP(),
		Country:      req.Country,
		City:         req.City,
		TimeOnPage:   req.TimeOnPage,
		ScrollDepth:  req.ScrollDepth,
		Interactions: req.Interactions,
		Referrer:     req.Referrer,
		UTMSource:    req.UTMSource,
		UTMMedium:    req.UTMMedium,
		UTMCampaign:  req.UTMCampaign,
	}
	if access.UserAgent == "" {
		access.UserAgent = c.Request().UserAgent()
	}
	if req.Metadata != nil {
		if eventType, ok := req.Metadata["event_type"].(string); ok {
			access.EventType = eventType
		}
		encoded, err := json.Marshal(req.Metadata)
		if err == nil {
			access.Metadata = string(encoded)
		}
	}

	if result := database.GetDB().Create(&access); result.Error != nil {
		log.Error("Failed to store page access", zap.String("page_url", req.PageURL), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to store page access"})
	}

	prometheus.RecordPageAccess(access.DeviceType)
	return c.JSON(http.StatusCreated, newPageAccessResponse(access))
}

// ListPageAccesses returns captured accesses, newest first
func ListPageAccesses(c echo.Context) error {
	log := logger.FromEcho(c)

	limit := intQueryParam(c, "limit", 50)
	offset := intQueryParam(c, "offset", 0)

	var accesses []model.PageAccess
	if err := database.GetDB().
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&accesses).Error; err != nil {
		log.Error("Failed to list page accesses", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve page accesses"})
	}

	responses := make([]PageAccessResponse, 0, len(accesses))
	for _, access := range accesses {
		responses = append(responses, newPageAccessResponse(access))
	}
	return c.JSON(http.StatusOK, responses)
}

func uniqueSessions(query *gorm.DB) int64 {
	var count int64
	query.Distinct("session_id").Count(&count)
	return count
}

func bounceRate(db *gorm.DB, since time.Time, until *time.Time) float64 {
	window := db.Model(&model.PageAccess{}).Where("created_at >= ?", since)
	if until != nil {
		window = window.Where("created_at < ?", *until)
	}
	totalSessions := uniqueSessions(window)
	if totalSessions == 0 {
		return 0
	}

	sub := db.Model(&model.PageAccess{}).
		Select("session_id").
		Where("created_at >= ?", since).
		Group("session_id").
		Having("COUNT(id) = 1")
	if until != nil {
		sub = sub.Where("created_at < ?", *until)
	}
	var bounced int64
	db.Table("(?) AS bounced", sub).Count(&bounced)

	return round2(float64(bounced) / float64(totalSessions) * 100)
}

func avgTimeOnPage(query *gorm.DB) float64 {
	var avg float64
	query.Select("COALESCE(AVG(time_on_page), 0)").Scan(&avg)
	return avg
}

// AnalyticsSummaryHandler aggregates page analytics over the requested window
func AnalyticsSummaryHandler(c echo.Context) error {
	log := logger.FromEcho(c)
	db := database.GetDB()

	days := intQueryParam(c, "days", 30)
	since := time.Now().AddDate(0, 0, -days)

	window := func() *gorm.DB {
		return db.Model(&model.PageAccess{}).Where("created_at >= ?", since)
	}

	var total int64
	window().Count(&total)

	summary := AnalyticsSummary{
		TotalPageViews:     total,
		UniqueVisitors:     uniqueSessions(window()),
		AvgSessionDuration: avgTimeOnPage(window()),
		BounceRate:         bounceRate(db, since, nil),
	}

	if err := window().
		Select("page_url, COUNT(id) AS views").
		Group("page_url").
		Order("views DESC").
		Limit(10).
		Scan(&summary.TopPages).Error; err != nil {
		log.Error("Failed to compute top pages", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute summary"})
	}

	if err := window().
		Select("section, COUNT(id) AS views").
		Where("section <> ''").
		Group("section").
		Order("views DESC").
		Limit(10).
		Scan(&summary.TopSections).Error; err != nil {
		log.Error("Failed to compute top sections", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute summary"})
	}

	summary.DeviceDistribution = distribution(window(), "device_type")
	summary.BrowserDistribution = distribution(window(), "browser")

	summary.EcommerceEvents = map[string]int64{}
	for event, key := range map[string]string{
		"product_view":   "product_views",
		"add_to_cart":    "add_to_cart",
		"begin_checkout": "begin_checkout",
		"purchase":       "purchases",
	} {
		var count int64
		window().Where("event_type = ?", event).Count(&count)
		summary.EcommerceEvents[key] = count
	}

	return c.JSON(http.StatusOK, summary)
}

func distribution(query *gorm.DB, column string) map[string]int64 {
	var rows []struct {
		Label string
		Count int64
	}
	query.Select(column + " AS label, COUNT(id) AS count").
		Group(column).
		Order("count DESC").
		Scan(&rows)

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Label] = row.Count
	}
	return result
}

// AnalyticsTrends returns per-day page analytics over the requested window
func AnalyticsTrends(c echo.Context) error {
	db := database.GetDB()

	days := intQueryParam(c, "days", 7)
	start := startOfDay(time.Now().AddDate(0, 0, -days))

	trends := make([]AnalyticsTrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		next := day.AddDate(0, 0, 1)

		window := func() *gorm.DB {
			return db.Model(&model.PageAccess{}).
				Where("created_at >= ? AND created_at < ?", day, next)
		}

		var views int64
		window().Count(&views)

		trends = append(trends, AnalyticsTrendPoint{
			Date:           day.Format("2006-01-02"),
			PageViews:      views,
			UniqueVisitors: uniqueSessions(window()),
			AvgTimeOnPage:  round2(avgTimeOnPage(window())),
			BounceRate:     bounceRate(db, day, &next),
		})
	}
	return c.JSON(http.StatusOK, trends)
}

// AnalyticsSections returns per-section engagement metrics over the window
func AnalyticsSections(c echo.Context) error {
	log := logger.FromEcho(c)
	db := database.GetDB()

	days := intQueryParam(c, "days", 30)
	since := time.Now().AddDate(0, 0, -days)

	var rows []struct {
		Section      string
		TotalViews   int64
		AvgTime      float64
		AvgScroll    float64
		AvgInteracts float64
	}
	if err := db.Model(&model.PageAccess{}).
		Select("section, COUNT(id) AS total_views, COALESCE(AVG(time_on_page), 0) AS avg_time, COALESCE(AVG(scroll_depth), 0) AS avg_scroll, COALESCE(AVG(interactions), 0) AS avg_interacts").
		Where("created_at >= ? AND section <> ''", since).
		Group("section").
		Order("total_views DESC").
		Scan(&rows).Error; err != nil {
		log.Error("Failed to compute section analytics", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute section analytics"})
	}

	sections := make([]SectionAnalytics, 0, len(rows))
	for _, row := range rows {
		sections = append(sections, SectionAnalytics{
			SectionName:      row.Section,
			TotalViews:       row.TotalViews,
			AvgTimeOnSection: round2(row.AvgTime),
			EngagementRate:   round2(row.AvgScroll),
			ConversionRate:   round2(row.AvgInteracts),
		})
	}
	return c.JSON(http.StatusOK, sections)
}

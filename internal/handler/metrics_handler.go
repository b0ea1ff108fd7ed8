package handler

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"lead-service/internal/model"
	"lead-service/pkg/database"
	"lead-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LeadOverview is the dashboard headline summary
type LeadOverview struct {
	TotalLeads     int64   `json:"total_leads"`
	NewLeadsToday  int64   `json:"new_leads_today"`
	NewLeadsWeek   int64   `json:"new_leads_week"`
	NewLeadsMonth  int64   `json:"new_leads_month"`
	ConversionRate float64 `json:"conversion_rate"`
}

// GroupMetric is one count+percentage bucket of a grouped breakdown
type GroupMetric struct {
	Status     string  `json:"status,omitempty"`
	LeadType   string  `json:"lead_type,omitempty"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TrendPoint is one day of the new/converted trend
type TrendPoint struct {
	Date           string `json:"date"`
	NewLeads       int64  `json:"new_leads"`
	ConvertedLeads int64  `json:"converted_leads"`
}

// DailyMetrics is one day of the detailed per-status breakdown
type DailyMetrics struct {
	Date           string `json:"date"`
	TotalLeads     int64  `json:"total_leads"`
	NewLeads       int64  `json:"new_leads"`
	PendingLeads   int64  `json:"pending_leads"`
	ContactedLeads int64  `json:"contacted_leads"`
	DiscardedLeads int64  `json:"discarded_leads"`
	ProcessLeads   int64  `json:"process_leads"`
	ConvertedLeads int64  `json:"converted_leads"`
}

// RecentActivityEntry is one row of the latest-leads feed
type RecentActivityEntry struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	LeadType  string    `json:"lead_type"`
	CreatedAt time.Time `json:"created_at"`
	Tryet     int       `json:"tryet"`
}

// ConversionFunnel breaks all leads down by status with percentages of the
// total; the percentages sum to 100 up to rounding
type ConversionFunnel struct {
	TotalLeads          int64   `json:"total_leads"`
	PendingLeads        int64   `json:"pending_leads"`
	ContactedLeads      int64   `json:"contacted_leads"`
	ProcessLeads        int64   `json:"process_leads"`
	ConvertedLeads      int64   `json:"converted_leads"`
	DiscardedLeads      int64   `json:"discarded_leads"`
	PendingPercentage   float64 `json:"pending_percentage"`
	ContactedPercentage float64 `json:"contacted_percentage"`
	ProcessPercentage   float64 `json:"process_percentage"`
	ConvertedPercentage float64 `json:"converted_percentage"`
	DiscardedPercentage float64 `json:"discarded_percentage"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func percentage(count, total int64) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(count) / float64(total) * 100)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// intQueryParam coerces a malformed or missing query parameter to its default
func intQueryParam(c echo.Context, name string, defaultValue int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func countLeads(db *gorm.DB, conds ...func(*gorm.DB) *gorm.DB) int64 {
	query := db.Model(&model.Lead{})
	for _, cond := range conds {
		query = cond(query)
	}
	var count int64
	query.Count(&count)
	return count
}

func createdBetween(from, to time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at >= ? AND created_at < ?", from, to)
	}
}

func createdSince(from time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at >= ?", from)
	}
}

func withStatus(status string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", status)
	}
}

// LeadMetricsOverview returns the headline lead counts and conversion rate
func LeadMetricsOverview(c echo.Context) error {
	log := logger.FromEcho(c)
	db := database.GetDB()

	today := startOfDay(time.Now())
	weekAgo := today.AddDate(0, 0, -7)
	monthAgo := today.AddDate(0, 0, -30)

	total := countLeads(db)
	converted := countLeads(db, withStatus(model.StatusConverted))

	overview := LeadOverview{
		TotalLeads:     total,
		NewLeadsToday:  countLeads(db, createdSince(today)),
		NewLeadsWeek:   countLeads(db, createdSince(weekAgo)),
		NewLeadsMonth:  countLeads(db, createdSince(monthAgo)),
		ConversionRate: percentage(converted, total),
	}

	log.Info("Lead overview computed", zap.Int64("total_leads", total))
	return c.JSON(http.StatusOK, overview)
}

// LeadMetricsByStatus returns lead counts grouped by status, largest first
func LeadMetricsByStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	db := database.GetDB()

	total := countLeads(db)

	var rows []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&model.Lead{}).
		Select("status, COUNT(id) AS count").
		Group("status").
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		log.Error("Failed to group leads by status", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute metrics"})
	}

	metrics := make([]GroupMetric, 0, len(rows))
	for _, row := range rows {
		metrics = append(metrics, GroupMetric{
			Status:     row.Status,
			Count:      row.Count,
			Percentage: percentage(row.Count, total),
		})
	}
	return c.JSON(http.StatusOK, metrics)
}

// LeadMetricsByType returns lead counts grouped by lead type name, largest first
func LeadMetricsByType(c echo.Context) error {
	log := logger.FromEcho(c)
	db := database.GetDB()

	total := countLeads(db)

	var rows []struct {
		Name  string
		Count int64
	}
	if err := db.Model(&model.Lead{}).
		Select("lead_types.name AS name, COUNT(leads.id) AS count").
		Joins("JOIN lead_types ON lead_types.id = leads.lead_type_id").
		Group("lead_types.name").
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		log.Error("Failed to group leads by type", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute metrics"})
	}

	metrics := make([]GroupMetric, 0, len(rows))
	for _, row := range rows {
		metrics = append(metrics, GroupMetric{
			LeadType:   row.Name,
			Count:      row.Count,
			Percentage: percentage(row.Count, total),
		})
	}
	return c.JSON(http.StatusOK, metrics)
}

// LeadMetricsTrends returns per-day new and converted counts over the
// requested window, endpoints inclusive
func LeadMetricsTrends(c echo.Context) error {
	db := database.GetDB()

	days := intQueryParam(c, "days", 30)
	end := startOfDay(time.Now())
	start := end.AddDate(0, 0, -days)

	trends := make([]TrendPoint, 0, days+1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		next := day.AddDate(0, 0, 1)
		trends = append(trends, TrendPoint{
			Date:           day.Format("2006-01-02"),
			NewLeads:       countLeads(db, createdBetween(day, next)),
			ConvertedLeads: countLeads(db, createdBetween(day, next), withStatus(model.StatusConverted)),
		})
	}
	return c.JSON(http.StatusOK, trends)
}

// LeadMetricsDaily returns the detailed per-status daily breakdown,
// endpoints inclusive
func LeadMetricsDaily(c echo.Context) error {
	db := database.GetDB()

	days := intQueryParam(c, "days", 7)
	end := startOfDay(time.Now())
	start := end.AddDate(0, 0, -days)

	metrics := make([]DailyMetrics, 0, days+1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		next := day.AddDate(0, 0, 1)
		window := createdBetween(day, next)
		created := countLeads(db, window)
		metrics = append(metrics, DailyMetrics{
			Date:           day.Format("2006-01-02"),
			TotalLeads:     created,
			NewLeads:       created,
			PendingLeads:   countLeads(db, window, withStatus(model.StatusPending)),
			ContactedLeads: countLeads(db, window, withStatus(model.StatusContacted)),
			DiscardedLeads: countLeads(db, window, withStatus(model.StatusDiscarded)),
			ProcessLeads:   countLeads(db, window, withStatus(model.StatusProcess)),
			ConvertedLeads: countLeads(db, window, withStatus(model.StatusConverted)),
		})
	}
	return c.JSON(http.StatusOK, metrics)
}

// LeadMetricsRecentActivity returns the latest captured leads with their
// type names
func LeadMetricsRecentActivity(c echo.Context) error {
	log := logger.FromEcho(c)

	limit := intQueryParam(c, "limit", 10)

	var leads []model.Lead
	if err := database.GetDB().
		Preload("LeadType").
		Order("created_at DESC").
		Limit(limit).
		Find(&leads).Error; err != nil {
		log.Error("Failed to load recent leads", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute metrics"})
	}

	activity := make([]RecentActivityEntry, 0, len(leads))
	for _, lead := range leads {
		activity = append(activity, RecentActivityEntry{
			ID:        lead.ID,
			Name:      lead.Name,
			Email:     lead.Email,
			Status:    lead.Status,
			LeadType:  lead.LeadType.Name,
			CreatedAt: lead.CreatedAt,
			Tryet:     lead.Tryet,
		})
	}
	return c.JSON(http.StatusOK, activity)
}

// LeadMetricsFunnel returns the status-wise funnel with percentages of the
// total
func LeadMetricsFunnel(c echo.Context) error {
	db := database.GetDB()

	funnel := ConversionFunnel{
		TotalLeads:     countLeads(db),
		PendingLeads:   countLeads(db, withStatus(model.StatusPending)),
		ContactedLeads: countLeads(db, withStatus(model.StatusContacted)),
		ProcessLeads:   countLeads(db, withStatus(model.StatusProcess)),
		ConvertedLeads: countLeads(db, withStatus(model.StatusConverted)),
		DiscardedLeads: countLeads(db, withStatus(model.StatusDiscarded)),
	}
	funnel.PendingPercentage = percentage(funnel.PendingLeads, funnel.TotalLeads)
	funnel.ContactedPercentage = percentage(funnel.ContactedLeads, funnel.TotalLeads)
	funnel.ProcessPercentage = percentage(funnel.ProcessLeads, funnel.TotalLeads)
	funnel.ConvertedPercentage = percentage(funnel.ConvertedLeads, funnel.TotalLeads)
	funnel.DiscardedPercentage = percentage(funnel.DiscardedLeads, funnel.TotalLeads)

	return c.JSON(http.StatusOK, funnel)
}

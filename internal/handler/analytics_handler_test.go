package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lead-service/internal/model"
)

func seedAccess(t *testing.T, db *gorm.DB, pageURL, section, sessionID, device, browser, eventType string, timeOnPage int, age time.Duration) {
	t.Helper()
	access := model.PageAccess{
		PageURL:    pageURL,
		Section:    section,
		SessionID:  sessionID,
		DeviceType: device,
		Browser:    browser,
		EventType:  eventType,
		TimeOnPage: timeOnPage,
		CreatedAt:  time.Now().Add(-age),
	}
	require.NoError(t, db.Create(&access).Error)
}

func TestCreatePageAccessRequiresURL(t *testing.T) {
	setupTestDB(t)

	c, rec := newContext(http.MethodPost, "/api/analytics/access", map[string]interface{}{}, nil)
	require.NoError(t, CreatePageAccess(c))
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestCreatePageAccessExtractsEventType(t *testing.T) {
	db := setupTestDB(t)

	c, rec := newContext(http.MethodPost, "/api/analytics/access", map[string]interface{}{
		"page_url":   "/products/42",
		"section":    "product-detail",
		"session_id": "s-1",
		"metadata": map[string]interface{}{
			"event_type": "product_view",
			"product_id": 42,
		},
	}, nil)
	require.NoError(t, CreatePageAccess(c))
	requireStatus(t, rec, http.StatusCreated)

	var stored model.PageAccess
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, "product_view", stored.EventType)
	assert.Contains(t, stored.Metadata, `"product_id"`)
}

func TestAnalyticsSummary(t *testing.T) {
	db := setupTestDB(t)

	// session s-1 views two pages, session s-2 bounces after one
	seedAccess(t, db, "/", "hero", "s-1", "mobile", "Chrome", "", 30, time.Minute)
	seedAccess(t, db, "/products", "catalog", "s-1", "mobile", "Chrome", "product_view", 60, time.Minute)
	seedAccess(t, db, "/", "hero", "s-2", "desktop", "Safari", "", 10, time.Minute)
	// outside the window
	seedAccess(t, db, "/", "", "s-3", "tablet", "Firefox", "", 5, 40*24*time.Hour)

	c, rec := newContext(http.MethodGet, "/api/analytics/summary?days=30", nil, nil)
	require.NoError(t, AnalyticsSummaryHandler(c))
	requireStatus(t, rec, http.StatusOK)

	var summary AnalyticsSummary
	decodeBody(t, rec, &summary)
	assert.EqualValues(t, 3, summary.TotalPageViews)
	assert.EqualValues(t, 2, summary.UniqueVisitors)
	assert.InDelta(t, 50.0, summary.BounceRate, 0.01)
	assert.EqualValues(t, 2, summary.DeviceDistribution["mobile"])
	assert.EqualValues(t, 1, summary.BrowserDistribution["Safari"])
	assert.EqualValues(t, 1, summary.EcommerceEvents["product_views"])
	assert.EqualValues(t, 0, summary.EcommerceEvents["purchases"])

	require.NotEmpty(t, summary.TopPages)
	assert.Equal(t, "/", summary.TopPages[0].PageURL)
	assert.EqualValues(t, 2, summary.TopPages[0].Views)
}

func TestAnalyticsTrendsBuckets(t *testing.T) {
	db := setupTestDB(t)

	seedAccess(t, db, "/", "", "s-1", "mobile", "Chrome", "", 20, 25*time.Hour)
	seedAccess(t, db, "/cart", "", "s-1", "mobile", "Chrome", "", 40, 25*time.Hour)

	c, rec := newContext(http.MethodGet, "/api/analytics/trends?days=3", nil, nil)
	require.NoError(t, AnalyticsTrends(c))

	var trends []AnalyticsTrendPoint
	decodeBody(t, rec, &trends)
	require.Len(t, trends, 3)

	var total int64
	for _, point := range trends {
		total += point.PageViews
	}
	assert.EqualValues(t, 2, total)
}

func TestAnalyticsSections(t *testing.T) {
	db := setupTestDB(t)

	for i := 0; i < 3; i++ {
		seedAccess(t, db, "/products", "catalog", fmt.Sprintf("s-%d", i), "mobile", "Chrome", "", 30, time.Minute)
	}
	seedAccess(t, db, "/", "hero", "s-9", "desktop", "Safari", "", 10, time.Minute)
	// blank sections are excluded
	seedAccess(t, db, "/", "", "s-10", "desktop", "Safari", "", 10, time.Minute)

	c, rec := newContext(http.MethodGet, "/api/analytics/sections", nil, nil)
	require.NoError(t, AnalyticsSections(c))

	var sections []SectionAnalytics
	decodeBody(t, rec, &sections)
	require.Len(t, sections, 2)
	assert.Equal(t, "catalog", sections[0].SectionName)
	assert.EqualValues(t, 3, sections[0].TotalViews)
	assert.InDelta(t, 30.0, sections[0].AvgTimeOnSection, 0.01)
}

func TestListPageAccessesNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	seedAccess(t, db, "/old", "", "s-1", "mobile", "Chrome", "", 5, time.Hour)
	seedAccess(t, db, "/new", "", "s-1", "mobile", "Chrome", "", 5, time.Minute)

	c, rec := newContext(http.MethodGet, "/api/analytics/access", nil, nil)
	require.NoError(t, ListPageAccesses(c))

	var accesses []PageAccessResponse
	decodeBody(t, rec, &accesses)
	require.Len(t, accesses, 2)
	assert.Equal(t, "/new", accesses[0].PageURL)
}

package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-service/internal/model"
)

func TestRecordContactAttemptRequiresStoreHeader(t *testing.T) {
	setupTestDB(t)

	c, rec := newContext(http.MethodPost, "/api/leads/existence", map[string]interface{}{}, nil)
	require.NoError(t, RecordContactAttempt(c))

	requireStatus(t, rec, http.StatusBadRequest)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "X-Store-Id header is missing", body["error"])
}

func TestRecordContactAttemptRejectsNonIntegerStore(t *testing.T) {
	setupTestDB(t)

	c, rec := newContext(http.MethodPost, "/api/leads/existence", map[string]interface{}{},
		map[string]string{"X-Store-Id": "main"})
	require.NoError(t, RecordContactAttempt(c))

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestRecordContactAttemptEmptyPayloadFailsValidation(t *testing.T) {
	db := setupTestDB(t)

	c, rec := newContext(http.MethodPost, "/api/leads/existence", map[string]interface{}{},
		map[string]string{"X-Store-Id": "1"})
	require.NoError(t, RecordContactAttempt(c))

	requireStatus(t, rec, http.StatusBadRequest)

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	decodeBody(t, rec, &body)
	assert.Contains(t, body.Errors, "email")
	assert.Contains(t, body.Errors, "lead_type")

	var count int64
	db.Model(&model.Lead{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestRecordContactAttemptCreatesThenUpdates(t *testing.T) {
	db := setupTestDB(t)
	leadType := createLeadType(t, db, "En intento de compra")

	payload := map[string]interface{}{
		"email":             "jonathan@example.com",
		"name":              "Jonathan Medrano",
		"phone_number":      "5552960001",
		"lead_type":         leadType.ID,
		"products_interest": []int{1, 3, 44, 49},
	}

	c, rec := newContext(http.MethodPost, "/api/leads/existence", payload,
		map[string]string{"X-Store-Id": "2"})
	require.NoError(t, RecordContactAttempt(c))
	requireStatus(t, rec, http.StatusCreated)

	var created LeadResponse
	decodeBody(t, rec, &created)
	assert.Equal(t, 1, created.Tryet)
	assert.Equal(t, 2, created.StoreID)
	assert.Equal(t, model.StatusPending, created.Status)
	assert.Equal(t, []int{1, 3, 44, 49}, created.ProductsInterest)

	// same email and type: 200 with the counter bumped and the latest phone
	payload["phone_number"] = "5552967027"
	c, rec = newContext(http.MethodPost, "/api/leads/existence", payload,
		map[string]string{"X-Store-Id": "2"})
	require.NoError(t, RecordContactAttempt(c))
	requireStatus(t, rec, http.StatusOK)

	var updated LeadResponse
	decodeBody(t, rec, &updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 2, updated.Tryet)
	assert.Equal(t, "5552967027", updated.PhoneNumber)

	var count int64
	db.Model(&model.Lead{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRecordContactAttemptDifferentTypeCreatesSecondRow(t *testing.T) {
	db := setupTestDB(t)
	typeA := createLeadType(t, db, "En intento de compra")
	typeB := createLeadType(t, db, "other type")

	base := map[string]interface{}{
		"email":        "carlos@example.com",
		"name":         "Carlos",
		"phone_number": "5552967027",
	}

	base["lead_type"] = typeA.ID
	c, rec := newContext(http.MethodPost, "/api/leads/existence", base,
		map[string]string{"X-Store-Id": "1"})
	require.NoError(t, RecordContactAttempt(c))
	requireStatus(t, rec, http.StatusCreated)

	base["lead_type"] = typeB.ID
	c, rec = newContext(http.MethodPost, "/api/leads/existence", base,
		map[string]string{"X-Store-Id": "1"})
	require.NoError(t, RecordContactAttempt(c))
	requireStatus(t, rec, http.StatusCreated)

	var forked LeadResponse
	decodeBody(t, rec, &forked)
	assert.Equal(t, 1, forked.Tryet)

	var count int64
	db.Model(&model.Lead{}).Where("email = ?", "carlos@example.com").Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestCreateLeadRejectsUnknownType(t *testing.T) {
	setupTestDB(t)

	c, rec := newContext(http.MethodPost, "/api/leads", map[string]interface{}{
		"name":      "Direct",
		"email":     "direct@example.com",
		"lead_type": 99,
	}, nil)
	require.NoError(t, CreateLead(c))

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestCreateAndGetLead(t *testing.T) {
	db := setupTestDB(t)
	leadType := createLeadType(t, db, "Cotización")

	c, rec := newContext(http.MethodPost, "/api/leads", map[string]interface{}{
		"name":              "Direct",
		"email":             "direct@example.com",
		"lead_type":         leadType.ID,
		"products_interest": []int{5, 2},
	}, nil)
	require.NoError(t, CreateLead(c))
	requireStatus(t, rec, http.StatusCreated)

	var created LeadResponse
	decodeBody(t, rec, &created)
	assert.Equal(t, model.StatusPending, created.Status)
	assert.Equal(t, 1, created.StoreID)
	assert.Equal(t, []int{5, 2}, created.ProductsInterest)

	c, rec = newContext(http.MethodGet, "/api/leads/1", nil, nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, GetLead(c))
	requireStatus(t, rec, http.StatusOK)
}

func TestDeleteLeadNotFound(t *testing.T) {
	setupTestDB(t)

	c, rec := newContext(http.MethodDelete, "/api/leads/42", nil, nil)
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, DeleteLead(c))
	requireStatus(t, rec, http.StatusNotFound)
}

func TestCreateLeadValidatesFields(t *testing.T) {
	db := setupTestDB(t)
	leadType := createLeadType(t, db, "Consulta General")

	c, rec := newContext(http.MethodPost, "/api/leads", map[string]interface{}{
		"email":     "not-an-email",
		"lead_type": leadType.ID,
	}, nil)
	require.NoError(t, CreateLead(c))
	requireStatus(t, rec, http.StatusBadRequest)

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, []string{"is invalid"}, body.Errors["email"])
	assert.Equal(t, []string{"is required"}, body.Errors["name"])

	var count int64
	db.Model(&model.Lead{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

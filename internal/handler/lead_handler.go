package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"lead-service/internal/model"
	"lead-service/internal/usecase"
	"lead-service/pkg/database"
	"lead-service/pkg/logger"
	"lead-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LeadRequest defines the structure for direct lead creation/update requests
type LeadRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	PhoneNumber      string `json:"phone_number"`
	LeadType         uint   `json:"lead_type"`
	Status           string `json:"status"`
	StoreID          int    `json:"store_id"`
	ProductsInterest []int  `json:"products_interest"`
}

// ContactRequest is the inbound payload of the ingestion endpoint
type ContactRequest struct {
	Email            string `json:"email"`
	Name             string `json:"name"`
	PhoneNumber      string `json:"phone_number"`
	LeadType         uint   `json:"lead_type"`
	ProductsInterest []int  `json:"products_interest"`
}

// LeadResponse is the materialized lead representation. The stored product
// id blob is always exposed decoded, under products_interest.
type LeadResponse struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PhoneNumber      string    `json:"phone_number"`
	LeadType         uint      `json:"lead_type"`
	CreatedAt        time.Time `json:"created_at"`
	Tryet            int       `json:"tryet"`
	StoreID          int       `json:"store_id"`
	Status           string    `json:"status"`
	ProductsInterest []int     `json:"products_interest"`
}

// NewLeadResponse builds the wire representation of a lead row
func NewLeadResponse(lead model.Lead) LeadResponse {
	return LeadResponse{
		ID:               lead.ID,
		Name:             lead.Name,
		Email:            lead.Email,
		PhoneNumber:      lead.PhoneNumber,
		LeadType:         lead.LeadTypeID,
		CreatedAt:        lead.CreatedAt,
		Tryet:            lead.Tryet,
		StoreID:          lead.StoreID,
		Status:           lead.Status,
		ProductsInterest: lead.ProductsInterest(),
	}
}

// RecordContactAttempt handles the lead ingestion endpoint. A repeat
// contact for a known email and lead type answers 200 with the bumped
// retry counter; anything else that validates answers 201 with a new row.
func RecordContactAttempt(c echo.Context) error {
	log := logger.FromEcho(c)

	storeHeader := c.Request().Header.Get("X-Store-Id")
	if storeHeader == "" {
		log.Warn("Missing X-Store-Id header")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "X-Store-Id header is missing"})
	}
	storeID, err := strconv.Atoi(storeHeader)
	if err != nil {
		log.Warn("Invalid X-Store-Id header", zap.String("value", storeHeader))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "X-Store-Id header must be an integer"})
	}

	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	defer prometheus.TrackDBOperation("upsert")(time.Now())
	result, err := usecase.RecordContact(database.GetDB(), usecase.RecordContactInput{
		Email:            req.Email,
		Name:             req.Name,
		PhoneNumber:      req.PhoneNumber,
		LeadTypeID:       req.LeadType,
		ProductsInterest: req.ProductsInterest,
		StoreID:          storeID,
	})
	if err != nil {
		var validationErrs usecase.ValidationErrors
		if errors.As(err, &validationErrs) {
			log.Warn("Contact attempt rejected", zap.String("reason", validationErrs.Error()))
			prometheus.RecordContactResult("rejected")
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": validationErrs.FieldMap()})
		}
		log.Error("Failed to record contact attempt", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	status := http.StatusOK
	outcome := "updated"
	if result.Created {
		status = http.StatusCreated
		outcome = "created"
	}
	prometheus.RecordContactResult(outcome)
	log.Info("Contact attempt recorded",
		zap.Uint("lead_id", result.Lead.ID),
		zap.String("email", result.Lead.Email),
		zap.Int("tryet", result.Lead.Tryet),
		zap.String("outcome", outcome))

	notifyLeadCaptured(c, result)

	return c.JSON(status, NewLeadResponse(result.Lead))
}

// ListLeads handles retrieving all leads with optional status filtering
func ListLeads(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	query := database.GetDB().Order("created_at DESC")
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var leads []model.Lead
	if result := query.Find(&leads); result.Error != nil {
		log.Error("Failed to list leads", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve leads"})
	}

	prometheus.RecordLeadOperation("list")
	responses := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		responses = append(responses, NewLeadResponse(lead))
	}
	return c.JSON(http.StatusOK, responses)
}

// GetLead handles retrieving a single lead by ID
func GetLead(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var lead model.Lead
	if result := database.GetDB().First(&lead, id); result.Error != nil {
		log.Warn("Lead not found", zap.String("lead_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Lead not found"})
	}

	prometheus.RecordLeadOperation("get")
	return c.JSON(http.StatusOK, NewLeadResponse(lead))
}

// CreateLead handles direct lead creation, bypassing the retry collapsing
// of the ingestion endpoint
func CreateLead(c echo.Context) error {
	log := logger.FromEcho(c)

	var req LeadRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if errs := usecase.ValidateRecordContactInput(database.GetDB(), usecase.RecordContactInput{
		Email:      req.Email,
		Name:       req.Name,
		LeadTypeID: req.LeadType,
	}); len(errs) > 0 {
		log.Warn("Lead creation rejected", zap.String("reason", errs.Error()))
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs.FieldMap()})
	}

	lead := model.Lead{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		LeadTypeID:  req.LeadType,
		StoreID:     req.StoreID,
		Status:      req.Status,
		Tryet:       1,
	}
	if lead.Status == "" {
		lead.Status = model.StatusPending
	}
	if lead.StoreID == 0 {
		lead.StoreID = 1
	}
	lead.SetProductsInterest(req.ProductsInterest)

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&lead); result.Error != nil {
		log.Error("Failed to create lead", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create lead"})
	}

	prometheus.RecordLeadOperation("create")
	log.Info("Lead created", zap.Uint("lead_id", lead.ID), zap.String("email", lead.Email))
	return c.JSON(http.StatusCreated, NewLeadResponse(lead))
}

// UpdateLead handles updating an existing lead
func UpdateLead(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var req LeadRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("lead_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var lead model.Lead
	if result := database.GetDB().First(&lead, id); result.Error != nil {
		log.Warn("Lead not found for update", zap.String("lead_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Lead not found"})
	}

	if req.LeadType != 0 && req.LeadType != lead.LeadTypeID {
		log.Warn("Attempt to change lead type in place", zap.String("lead_id", id))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lead_type cannot change in place"})
	}

	lead.Name = req.Name
	lead.Email = req.Email
	lead.PhoneNumber = req.PhoneNumber
	if req.Status != "" {
		lead.Status = req.Status
	}
	if req.StoreID != 0 {
		lead.StoreID = req.StoreID
	}
	lead.SetProductsInterest(req.ProductsInterest)

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&lead); result.Error != nil {
		log.Error("Failed to update lead", zap.String("lead_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update lead"})
	}

	prometheus.RecordLeadOperation("update")
	log.Info("Lead updated", zap.String("lead_id", id), zap.String("status", lead.Status))
	return c.JSON(http.StatusOK, NewLeadResponse(lead))
}

// DeleteLead handles deleting a lead
func DeleteLead(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Delete(&model.Lead{}, id)
	if result.Error != nil {
		log.Error("Failed to delete lead", zap.String("lead_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete lead"})
	}
	if result.RowsAffected == 0 {
		log.Warn("Lead not found for deletion", zap.String("lead_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Lead not found"})
	}

	prometheus.RecordLeadOperation("delete")
	log.Info("Lead deleted", zap.String("lead_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Lead deleted successfully"})
}

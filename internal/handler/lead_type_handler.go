package handler

import (
	"net/http"

	"lead-service/internal/model"
	"lead-service/pkg/database"
	"lead-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LeadTypeRequest defines the structure for lead type creation requests
type LeadTypeRequest struct {
	Name   string `json:"name"`
	Status int    `json:"status"`
}

// ListLeadTypes handles retrieving all lead types
func ListLeadTypes(c echo.Context) error {
	log := logger.FromEcho(c)

	var leadTypes []model.LeadType
	if result := database.GetDB().Order("id").Find(&leadTypes); result.Error != nil {
		log.Error("Failed to list lead types", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve lead types"})
	}

	return c.JSON(http.StatusOK, leadTypes)
}

// GetLeadType handles retrieving a single lead type by ID
func GetLeadType(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var leadType model.LeadType
	if result := database.GetDB().First(&leadType, id); result.Error != nil {
		log.Warn("Lead type not found", zap.String("lead_type_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Lead type not found"})
	}

	return c.JSON(http.StatusOK, leadType)
}

// CreateLeadType handles creating a new lead type
func CreateLeadType(c echo.Context) error {
	log := logger.FromEcho(c)

	var req LeadTypeRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": map[string][]string{"name": {"is required"}}})
	}

	leadType := model.LeadType{Name: req.Name, Status: req.Status}
	if leadType.Status == 0 {
		leadType.Status = 1
	}

	if result := database.GetDB().Create(&leadType); result.Error != nil {
		log.Error("Failed to create lead type", zap.String("name", req.Name), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create lead type"})
	}

	log.Info("Lead type created", zap.Uint("lead_type_id", leadType.ID), zap.String("name", leadType.Name))
	return c.JSON(http.StatusCreated, leadType)
}

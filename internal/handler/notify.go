package handler

import (
	"lead-service/internal/mail"
	"lead-service/internal/queue"
	"lead-service/internal/usecase"
	"lead-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Publisher and Notifier are wired in main when their backends are
// configured; both are nil-safe. Delivery failures are logged and never
// fail the request that triggered them.
var (
	Publisher *queue.Producer
	Notifier  *mail.Sender
)

func notifyLeadCaptured(c echo.Context, result *usecase.RecordContactResult) {
	log := logger.FromEcho(c)

	if err := Publisher.PublishLeadCaptured(c.Request().Context(), queue.LeadEvent{
		LeadID:   result.Lead.ID,
		Email:    result.Lead.Email,
		Name:     result.Lead.Name,
		LeadType: result.Lead.LeadTypeID,
		StoreID:  result.Lead.StoreID,
		Tryet:    result.Lead.Tryet,
		Created:  result.Created,
	}); err != nil {
		log.Error("Failed to publish lead event", zap.Uint("lead_id", result.Lead.ID), zap.Error(err))
	}

	if result.Created {
		if err := Notifier.SendLeadNotification(result.Lead); err != nil {
			log.Error("Failed to send lead notification", zap.Uint("lead_id", result.Lead.ID), zap.Error(err))
		}
	}
}

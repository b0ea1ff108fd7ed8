package usecase

import (
	"errors"
	"net/mail"
	"strings"

	"gorm.io/gorm"
	"lead-service/internal/model"
)

// ValidateRecordContactInput checks the inbound contact payload and reports
// every field failure at once, including whether the referenced lead type
// exists. Nothing is written during validation.
func ValidateRecordContactInput(db *gorm.DB, input RecordContactInput) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(input.Email) == "" {
		errs = append(errs, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errs = append(errs, ValidationError{"email", "is invalid"})
	}

	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, ValidationError{"name", "is required"})
	}

	if input.LeadTypeID == 0 {
		errs = append(errs, ValidationError{"lead_type", "is required"})
	} else {
		var leadType model.LeadType
		err := db.First(&leadType, input.LeadTypeID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs = append(errs, ValidationError{"lead_type", "does not exist"})
		} else if err != nil {
			errs = append(errs, ValidationError{"lead_type", "could not be resolved"})
		}
	}

	return errs
}

package usecase

import (
	"errors"
	"sync"

	"gorm.io/gorm"
	"lead-service/internal/model"
)

// RecordContactInput is the inbound contact attempt payload
type RecordContactInput struct {
	Email            string
	Name             string
	PhoneNumber      string
	LeadTypeID       uint
	ProductsInterest []int
	StoreID          int
}

// RecordContactResult carries the resulting lead row and whether it was
// freshly inserted (as opposed to an in-place retry update)
type RecordContactResult struct {
	Lead    model.Lead
	Created bool
}

// emailLocks serializes concurrent contact attempts per email. The
// lookup-then-write sequence below would otherwise race two attempts for
// the same new email into duplicate rows; a unique index is not an option
// because duplicate (email, lead_type) rows are legal via direct creation.
// Entries are reference counted and dropped once the last holder unlocks,
// so the table only ever holds in-flight emails.
type emailLock struct {
	mu   sync.Mutex
	refs int
}

var (
	locksMu    sync.Mutex
	emailLocks = make(map[string]*emailLock)
)

func lockEmail(email string) func() {
	locksMu.Lock()
	l, ok := emailLocks[email]
	if !ok {
		l = &emailLock{}
		emailLocks[email] = l
	}
	l.refs++
	locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(emailLocks, email)
		}
		locksMu.Unlock()
	}
}

// RecordContact collapses an inbound contact attempt into exactly one lead
// row. The lookup keys on email alone; the lead-type comparison only
// happens after a match is found. A repeat contact under the same type
// overwrites the row's contact fields and bumps the retry counter; a
// contact under a different type forks a brand-new row.
func RecordContact(db *gorm.DB, input RecordContactInput) (*RecordContactResult, error) {
	if errs := ValidateRecordContactInput(db, input); len(errs) > 0 {
		return nil, errs
	}

	unlock := lockEmail(input.Email)
	defer unlock()

	result := &RecordContactResult{}
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing model.Lead
		err := tx.Where("email = ?", input.Email).Order("id").First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return insertLead(tx, input, result)
		case err != nil:
			return err
		case existing.LeadTypeID != input.LeadTypeID:
			// same email, different interest category: fresh lead
			return insertLead(tx, input, result)
		default:
			existing.Name = input.Name
			existing.PhoneNumber = input.PhoneNumber
			existing.Email = input.Email
			existing.StoreID = input.StoreID
			existing.SetProductsInterest(input.ProductsInterest)
			existing.Tryet++
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			result.Lead = existing
			result.Created = false
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func insertLead(tx *gorm.DB, input RecordContactInput, result *RecordContactResult) error {
	lead := model.Lead{
		Name:        input.Name,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		LeadTypeID:  input.LeadTypeID,
		StoreID:     input.StoreID,
		Status:      model.StatusPending,
		Tryet:       1,
	}
	lead.SetProductsInterest(input.ProductsInterest)
	if err := tx.Create(&lead).Error; err != nil {
		return err
	}
	result.Lead = lead
	result.Created = true
	return nil
}

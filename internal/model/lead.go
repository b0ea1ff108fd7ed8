package model

import (
	"encoding/json"
	"time"
)

// Lead statuses
const (
	StatusPending   = "pending"
	StatusContacted = "contacted"
	StatusDiscarded = "discarded"
	StatusProcess   = "process"
	StatusConverted = "converted"
)

// AllStatuses lists every lead status in funnel order
var AllStatuses = []string{
	StatusPending,
	StatusContacted,
	StatusProcess,
	StatusConverted,
	StatusDiscarded,
}

// Lead represents a captured sales contact. Tryet counts the contact
// attempts collapsed into this row; ProductsInterestIDs holds the
// JSON-encoded product id list and is never exposed directly.
type Lead struct {
	ID                  uint      `json:"id" gorm:"primarykey"`
	Name                string    `json:"name" gorm:"type:varchar(100);not null"`
	Email               string    `json:"email" gorm:"type:varchar(254);not null;index"`
	PhoneNumber         string    `json:"phone_number" gorm:"type:varchar(20)"`
	LeadTypeID          uint      `json:"lead_type" gorm:"not null"`
	LeadType            LeadType  `json:"-" gorm:"foreignKey:LeadTypeID"`
	CreatedAt           time.Time `json:"created_at"`
	Tryet               int       `json:"tryet" gorm:"not null;default:1"`
	ProductsInterestIDs string    `json:"-" gorm:"type:text"`
	StoreID             int       `json:"store_id" gorm:"not null;default:1"`
	Status              string    `json:"status" gorm:"type:varchar(20);default:pending"`
}

// SetProductsInterest encodes the product id list into the stored blob
func (l *Lead) SetProductsInterest(ids []int) {
	if ids == nil {
		ids = []int{}
	}
	encoded, _ := json.Marshal(ids)
	l.ProductsInterestIDs = string(encoded)
}

// ProductsInterest decodes the stored blob back into a product id list.
// An empty or unreadable blob decodes to an empty list.
func (l *Lead) ProductsInterest() []int {
	if l.ProductsInterestIDs == "" {
		return []int{}
	}
	var ids []int
	if err := json.Unmarshal([]byte(l.ProductsInterestIDs), &ids); err != nil {
		return []int{}
	}
	if ids == nil {
		return []int{}
	}
	return ids
}

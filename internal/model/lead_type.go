package model

// LeadType is the named category a lead was captured under
type LeadType struct {
	ID     uint   `json:"id" gorm:"primarykey"`
	Name   string `json:"name" gorm:"type:varchar(100);not null"`
	Status int    `json:"status" gorm:"default:1"`
}

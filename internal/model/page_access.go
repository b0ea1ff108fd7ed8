package model

import "time"

// PageAccess records a single page view or storefront event
type PageAccess struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	PageURL   string `json:"page_url" gorm:"type:varchar(500);not null;index"`
	PageTitle string `json:"page_title" gorm:"type:varchar(200)"`
	Section   string `json:"section" gorm:"type:varchar(100);index"`

	UserID    string `json:"user_id" gorm:"type:varchar(100);index"`
	SessionID string `json:"session_id" gorm:"type:varchar(100);index"`

	UserAgent  string `json:"user_agent" gorm:"type:text"`
	DeviceType string `json:"device_type" gorm:"type:varchar(50);index"`
	Browser    string `json:"browser" gorm:"type:varchar(50)"`
	OS         string `json:"os" gorm:"type:varchar(50)"`

	IPAddress string `json:"ip_address" gorm:"type:varchar(45)"`
	Country   string `json:"country" gorm:"type:varchar(100)"`
	City      string `json:"city" gorm:"type:varchar(100)"`

	TimeOnPage   int `json:"time_on_page" gorm:"default:0"`
	ScrollDepth  int `json:"scroll_depth" gorm:"default:0"`
	Interactions int `json:"interactions" gorm:"default:0"`

	Referrer    string `json:"referrer" gorm:"type:varchar(500)"`
	UTMSource   string `json:"utm_source" gorm:"type:varchar(100)"`
	UTMMedium   string `json:"utm_medium" gorm:"type:varchar(100)"`
	UTMCampaign string `json:"utm_campaign" gorm:"type:varchar(100)"`

	// EventType is pulled out of the metadata document at capture time so
	// summaries can group on a plain column
	EventType string `json:"event_type" gorm:"type:varchar(50);index"`
	Metadata  string `json:"metadata" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the analytics table apart from the lead tables
func (PageAccess) TableName() string {
	return "page_analytics_access"
}

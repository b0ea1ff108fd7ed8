package seed

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
	"lead-service/internal/model"
)

// Default lead types created when the table is empty
var defaultLeadTypes = []string{
	"Consulta General",
	"Compra Inmediata",
	"Cotización",
	"Soporte Técnico",
	"Información Producto",
}

// LeadOptions configures fake lead generation; all knobs are explicit so
// callers carry no process-wide state
type LeadOptions struct {
	Count    int
	DaysBack int
	StoreIDs []int
	Seed     uint64
}

// AnalyticsOptions configures fake page access generation
type AnalyticsOptions struct {
	Count int
	Days  int
	Seed  uint64
}

// EnsureLeadTypes creates the default lead types when none exist and
// returns the full set
func EnsureLeadTypes(db *gorm.DB) ([]model.LeadType, error) {
	var leadTypes []model.LeadType
	if err := db.Find(&leadTypes).Error; err != nil {
		return nil, err
	}
	if len(leadTypes) > 0 {
		return leadTypes, nil
	}

	for _, name := range defaultLeadTypes {
		leadType := model.LeadType{Name: name, Status: 1}
		if err := db.Create(&leadType).Error; err != nil {
			return nil, fmt.Errorf("failed to create lead type %q: %w", name, err)
		}
		leadTypes = append(leadTypes, leadType)
	}
	return leadTypes, nil
}

// Leads generates fake leads spread over the configured day window
func Leads(db *gorm.DB, opts LeadOptions) (int, error) {
	faker := gofakeit.New(int64(opts.Seed))

	leadTypes, err := EnsureLeadTypes(db)
	if err != nil {
		return 0, err
	}

	storeIDs := opts.StoreIDs
	if len(storeIDs) == 0 {
		storeIDs = []int{1}
	}

	created := 0
	for i := 0; i < opts.Count; i++ {
		daysAgo := faker.Number(0, opts.DaysBack)
		createdAt := time.Now().
			AddDate(0, 0, -daysAgo).
			Add(-time.Duration(faker.Number(0, 23)) * time.Hour)

		products := make([]int, 0, 3)
		for j := 0; j < faker.Number(0, 3); j++ {
			products = append(products, faker.Number(1, 50))
		}

		lead := model.Lead{
			Name:        faker.Name(),
			Email:       faker.Email(),
			PhoneNumber: faker.Phone(),
			LeadTypeID:  leadTypes[faker.Number(0, len(leadTypes)-1)].ID,
			StoreID:     storeIDs[faker.Number(0, len(storeIDs)-1)],
			Status:      model.AllStatuses[faker.Number(0, len(model.AllStatuses)-1)],
			Tryet:       faker.Number(1, 4),
			CreatedAt:   createdAt,
		}
		lead.SetProductsInterest(products)

		if err := db.Create(&lead).Error; err != nil {
			return created, fmt.Errorf("failed to create lead: %w", err)
		}
		created++
	}
	return created, nil
}

// ClearLeads removes every lead row; lead types are kept
func ClearLeads(db *gorm.DB) (int64, error) {
	result := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Lead{})
	return result.RowsAffected, result.Error
}

var (
	seedSections = []string{"", "hero", "catalog", "product-detail", "checkout", "footer"}
	seedDevices  = []string{"mobile", "desktop", "tablet"}
	seedBrowsers = []string{"Chrome", "Safari", "Firefox", "Edge"}
	seedEvents   = []string{"", "product_view", "add_to_cart", "begin_checkout", "purchase"}
	seedPages    = []string{"/", "/products", "/products/detail", "/cart", "/checkout", "/contact"}
)

// PageAccesses generates fake page analytics events over the configured window
func PageAccesses(db *gorm.DB, opts AnalyticsOptions) (int, error) {
	faker := gofakeit.New(int64(opts.Seed))

	created := 0
	for i := 0; i < opts.Count; i++ {
		daysAgo := faker.Number(0, opts.Days)
		createdAt := time.Now().
			AddDate(0, 0, -daysAgo).
			Add(-time.Duration(faker.Number(0, 23)) * time.Hour)

		eventType := seedEvents[faker.Number(0, len(seedEvents)-1)]
		metadata := "{}"
		if eventType != "" {
			metadata = fmt.Sprintf(`{"event_type":%q}`, eventType)
		}

		access := model.PageAccess{
			PageURL:      seedPages[faker.Number(0, len(seedPages)-1)],
			PageTitle:    faker.Sentence(3),
			Section:      seedSections[faker.Number(0, len(seedSections)-1)],
			SessionID:    faker.UUID(),
			UserAgent:    faker.UserAgent(),
			DeviceType:   seedDevices[faker.Number(0, len(seedDevices)-1)],
			Browser:      seedBrowsers[faker.Number(0, len(seedBrowsers)-1)],
			OS:           faker.RandomString([]string{"Windows", "macOS", "Linux", "iOS", "Android"}),
			IPAddress:    faker.IPv4Address(),
			Country:      faker.Country(),
			City:         faker.City(),
			TimeOnPage:   faker.Number(2, 600),
			ScrollDepth:  faker.Number(0, 100),
			Interactions: faker.Number(0, 20),
			Referrer:     faker.URL(),
			EventType:    eventType,
			Metadata:     metadata,
			CreatedAt:    createdAt,
		}

		if err := db.Create(&access).Error; err != nil {
			return created, fmt.Errorf("failed to create page access: %w", err)
		}
		created++
	}
	return created, nil
}

// ClearPageAccesses removes every analytics row
func ClearPageAccesses(db *gorm.DB) (int64, error) {
	result := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.PageAccess{})
	return result.RowsAffected, result.Error
}

package usecase

import (
	"fmt"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"lead-service/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.LeadType{}, &model.Lead{}, &model.PageAccess{}))
	return db
}

func createLeadType(t *testing.T, db *gorm.DB, name string) model.LeadType {
	t.Helper()
	leadType := model.LeadType{Name: name, Status: 1}
	require.NoError(t, db.Create(&leadType).Error)
	return leadType
}

func TestRecordContactCreatesLead(t *testing.T) {
	db := newTestDB(t)
	leadType := createLeadType(t, db, "En intento de compra")

	result, err := RecordContact(db, RecordContactInput{
		Email:            "maria.lopez@example.com",
		Name:             "Maria Lopez",
		PhoneNumber:      "5552960001",
		LeadTypeID:       leadType.ID,
		ProductsInterest: []int{1, 3, 44, 49},
		StoreID:          1,
	})
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.Equal(t, 1, result.Lead.Tryet)
	assert.Equal(t, model.StatusPending, result.Lead.Status)
	assert.Equal(t, []int{1, 3, 44, 49}, result.Lead.ProductsInterest())

	var count int64
	db.Model(&model.Lead{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRecordContactRepeatSameTypeCollapses(t *testing.T) {
	db := newTestDB(t)
	leadType := createLeadType(t, db, "En intento de compra")

	input := RecordContactInput{
		Email:       "jonathan@example.com",
		Name:        "Jonathan Medrano",
		PhoneNumber: "5552960001",
		LeadTypeID:  leadType.ID,
		StoreID:     1,
	}

	first, err := RecordContact(db, input)
	require.NoError(t, err)
	require.True(t, first.Created)

	const attempts = 5
	var last *RecordContactResult
	for i := 2; i <= attempts; i++ {
		input.PhoneNumber = fmt.Sprintf("555296%04d", i)
		last, err = RecordContact(db, input)
		require.NoError(t, err)
		assert.False(t, last.Created)
		assert.Equal(t, i, last.Lead.Tryet)
	}

	// one row, identity unchanged, fields reflect the latest attempt
	var count int64
	db.Model(&model.Lead{}).Count(&count)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, first.Lead.ID, last.Lead.ID)
	assert.Equal(t, attempts, last.Lead.Tryet)
	assert.Equal(t, fmt.Sprintf("555296%04d", attempts), last.Lead.PhoneNumber)
}

func TestRecordContactSecondAttemptOverwritesContactFields(t *testing.T) {
	db := newTestDB(t)
	leadType := createLeadType(t, db, "Cotización")

	_, err := RecordContact(db, RecordContactInput{
		Email:            "ana@example.com",
		Name:             "Ana",
		PhoneNumber:      "1111111111",
		LeadTypeID:       leadType.ID,
		ProductsInterest: []int{1},
		StoreID:          1,
	})
	require.NoError(t, err)

	result, err := RecordContact(db, RecordContactInput{
		Email:            "ana@example.com",
		Name:             "Ana Torres",
		PhoneNumber:      "5552967027",
		LeadTypeID:       leadType.ID,
		ProductsInterest: []int{7, 9},
		StoreID:          3,
	})
	require.NoError(t, err)

	assert.False(t, result.Created)
	assert.Equal(t, 2, result.Lead.Tryet)
	assert.Equal(t, "Ana Torres", result.Lead.Name)
	assert.Equal(t, "5552967027", result.Lead.PhoneNumber)
	assert.Equal(t, 3, result.Lead.StoreID)
	assert.Equal(t, []int{7, 9}, result.Lead.ProductsInterest())
}

func TestRecordContactDifferentTypeForksNewLead(t *testing.T) {
	db := newTestDB(t)
	typeA := createLeadType(t, db, "En intento de compra")
	typeB := createLeadType(t, db, "other type")

	first, err := RecordContact(db, RecordContactInput{
		Email:      "carlos@example.com",
		Name:       "Carlos",
		LeadTypeID: typeA.ID,
		StoreID:    1,
	})
	require.NoError(t, err)
	require.True(t, first.Created)

	second, err := RecordContact(db, RecordContactInput{
		Email:      "carlos@example.com",
		Name:       "Carlos",
		LeadTypeID: typeB.ID,
		StoreID:    1,
	})
	require.NoError(t, err)

	assert.True(t, second.Created)
	assert.Equal(t, 1, second.Lead.Tryet)
	assert.NotEqual(t, first.Lead.ID, second.Lead.ID)

	var count int64
	db.Model(&model.Lead{}).Where("email = ?", "carlos@example.com").Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestRecordContactEmptyPayloadWritesNothing(t *testing.T) {
	db := newTestDB(t)

	_, err := RecordContact(db, RecordContactInput{})
	require.Error(t, err)

	var validationErrs ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	fields := validationErrs.FieldMap()
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "lead_type")

	var count int64
	db.Model(&model.Lead{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestRecordContactUnknownLeadTypeRejected(t *testing.T) {
	db := newTestDB(t)

	_, err := RecordContact(db, RecordContactInput{
		Email:      "valid@example.com",
		Name:       "Valid Name",
		LeadTypeID: 42,
		StoreID:    1,
	})
	require.Error(t, err)

	var validationErrs ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.Equal(t, []string{"does not exist"}, validationErrs.FieldMap()["lead_type"])

	var count int64
	db.Model(&model.Lead{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestRecordContactMalformedEmailRejected(t *testing.T) {
	db := newTestDB(t)
	leadType := createLeadType(t, db, "Consulta General")

	_, err := RecordContact(db, RecordContactInput{
		Email:      "not-an-email",
		Name:       "Someone",
		LeadTypeID: leadType.ID,
		StoreID:    1,
	})
	require.Error(t, err)

	var validationErrs ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.Equal(t, []string{"is invalid"}, validationErrs.FieldMap()["email"])
}

func TestProductsInterestRoundTrip(t *testing.T) {
	db := newTestDB(t)
	leadType := createLeadType(t, db, "Información Producto")

	result, err := RecordContact(db, RecordContactInput{
		Email:            "roundtrip@example.com",
		Name:             "Round Trip",
		LeadTypeID:       leadType.ID,
		ProductsInterest: []int{1, 3, 44, 49},
		StoreID:          1,
	})
	require.NoError(t, err)

	var stored model.Lead
	require.NoError(t, db.First(&stored, result.Lead.ID).Error)
	// order preserved, no dedup, no sort
	assert.Equal(t, []int{1, 3, 44, 49}, stored.ProductsInterest())
}

func TestRecordContactNilProductsStoredAsEmptyList(t *testing.T) {
	db := newTestDB(t)
	leadType := createLeadType(t, db, "Consulta General")

	result, err := RecordContact(db, RecordContactInput{
		Email:      "empty@example.com",
		Name:       "Empty Products",
		LeadTypeID: leadType.ID,
		StoreID:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{}, result.Lead.ProductsInterest())
}

func TestRecordContactConcurrentSameEmailCollapses(t *testing.T) {
	db := newTestDB(t)
	leadType := createLeadType(t, db, "En intento de compra")

	const attempts = 10
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := RecordContact(db, RecordContactInput{
				Email:       "burst@example.com",
				Name:        "Burst",
				PhoneNumber: fmt.Sprintf("555296%04d", i),
				LeadTypeID:  leadType.ID,
				StoreID:     1,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// every attempt collapsed into the same row
	var leads []model.Lead
	require.NoError(t, db.Find(&leads).Error)
	require.Len(t, leads, 1)
	assert.Equal(t, attempts, leads[0].Tryet)

	// the lock table drains once no attempt is in flight
	locksMu.Lock()
	assert.Empty(t, emailLocks)
	locksMu.Unlock()
}

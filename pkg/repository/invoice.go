package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"scan-in/pkg/models"
)

var (
	// ErrDuplicateInvoice is returned when the invoice number is already stored.
	ErrDuplicateInvoice = errors.New("invoice number already exists")
	// ErrNotFound is returned when no invoice has the requested id.
	ErrNotFound = errors.New("invoice not found")
)

// MaxListLimit caps the page size of List.
const MaxListLimit = 100

// Open connects to Postgres and migrates the invoice schema.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the invoices and items tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Invoice{}, &models.Item{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// InvoiceRepository stores invoice records.
type InvoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a repository on db.
func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create stores rec with its items and returns it with its id.
func (r *InvoiceRepository) Create(ctx context.Context, rec models.InvoiceRecord) (models.InvoiceRecord, error) {
	inv := models.NewInvoice(rec)
	inv.ID = 0
	if err := r.db.WithContext(ctx).Create(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.InvoiceRecord{}, fmt.Errorf("%w: %s", ErrDuplicateInvoice, rec.InvoiceNumber)
		}
		return models.InvoiceRecord{}, fmt.Errorf("failed to create invoice: %w", err)
	}
	return inv.Record(), nil
}

// Get returns the invoice with id.
func (r *InvoiceRepository) Get(ctx context.Context, id uint) (models.InvoiceRecord, error) {
	var inv models.Invoice
	err := r.db.WithContext(ctx).Preload("Items").First(&inv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.InvoiceRecord{}, ErrNotFound
	}
	if err != nil {
		return models.InvoiceRecord{}, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv.Record(), nil
}

// List returns up to limit invoices after skipping skip, oldest first.
func (r *InvoiceRepository) List(ctx context.Context, skip, limit int) ([]models.InvoiceRecord, error) {
	skip, limit = Page(skip, limit)

	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("id").
		Offset(skip).
		Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	out := make([]models.InvoiceRecord, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, inv.Record())
	}
	return out, nil
}

// Page clamps pagination arguments to sane values.
func Page(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	return skip, limit
}

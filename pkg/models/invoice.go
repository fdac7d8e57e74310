package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"scan-in/pkg/amount"
)

// Address is the counterparty address found on an invoice.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// LineItem is one row of purchased goods.
type LineItem struct {
	Description string        `json:"description"`
	Quantity    int           `json:"quantity"`
	UnitPrice   amount.Amount `json:"unitPrice"`
	TotalPrice  amount.Amount `json:"totalPrice"`
	Category    string        `json:"category"`
	ProductCode string        `json:"productCode"`
}

// InvoiceRecord is the extracted invoice as exchanged with clients.
// Field names are part of the API contract.
type InvoiceRecord struct {
	InvoiceNumber      string        `json:"invoiceNumber"`
	InvoiceDate        string        `json:"invoiceDate"`
	TotalAmount        amount.Amount `json:"totalAmount"`
	Company            string        `json:"company"`
	IsNewCompany       bool          `json:"isNewCompany"`
	Amount             amount.Amount `json:"amount"`
	Currency           string        `json:"currency"`
	DebiteurName       string        `json:"debiteurName"`
	DueDate            string        `json:"dueDate"`
	VATNumber          string        `json:"vatNumber"`
	Address            Address       `json:"address"`
	Items              []LineItem    `json:"items"`
	Subtotal           amount.Amount `json:"subtotal"`
	DiscountPercentage amount.Amount `json:"discountPercentage"`
	DiscountAmount     amount.Amount `json:"discountAmount"`
	ShippingAmount     amount.Amount `json:"shippingAmount"`
	ShipMode           string        `json:"shipMode"`
	Notes              string        `json:"notes"`
	Terms              string        `json:"terms"`
	OrderID            string        `json:"orderId"`

	// ID is set once the record has been stored.
	ID uint `json:"id,omitempty"`
}

// Invoice is the stored form of an InvoiceRecord.
type Invoice struct {
	gorm.Model
	InvoiceNumber      string `gorm:"uniqueIndex;not null"`
	InvoiceDate        string
	TotalAmount        decimal.Decimal `gorm:"type:numeric(12,2)"`
	Company            string
	IsNewCompany       bool
	Amount             decimal.Decimal `gorm:"type:numeric(12,2)"`
	Currency           string
	DebiteurName       string
	DueDate            string
	VATNumber          string
	Street             string
	City               string
	PostalCode         string
	Country            string
	Subtotal           decimal.Decimal `gorm:"type:numeric(12,2)"`
	DiscountPercentage decimal.Decimal `gorm:"type:numeric(12,2)"`
	DiscountAmount     decimal.Decimal `gorm:"type:numeric(12,2)"`
	ShippingAmount     decimal.Decimal `gorm:"type:numeric(12,2)"`
	ShipMode           string
	Notes              string
	Terms              string
	OrderID            string
	Items              []Item `gorm:"constraint:OnDelete:CASCADE"`
}

// Item is the stored form of a LineItem.
type Item struct {
	gorm.Model
	InvoiceID   uint `gorm:"index;not null"`
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2)"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(12,2)"`
	Category    string
	ProductCode string
}

// NewInvoice flattens a record into its stored form.
func NewInvoice(r InvoiceRecord) Invoice {
	inv := Invoice{
		InvoiceNumber:      r.InvoiceNumber,
		InvoiceDate:        r.InvoiceDate,
		TotalAmount:        r.TotalAmount.Decimal(),
		Company:            r.Company,
		IsNewCompany:       r.IsNewCompany,
		Amount:             r.Amount.Decimal(),
		Currency:           r.Currency,
		DebiteurName:       r.DebiteurName,
		DueDate:            r.DueDate,
		VATNumber:          r.VATNumber,
		Street:             r.Address.Street,
		City:               r.Address.City,
		PostalCode:         r.Address.PostalCode,
		Country:            r.Address.Country,
		Subtotal:           r.Subtotal.Decimal(),
		DiscountPercentage: r.DiscountPercentage.Decimal(),
		DiscountAmount:     r.DiscountAmount.Decimal(),
		ShippingAmount:     r.ShippingAmount.Decimal(),
		ShipMode:           r.ShipMode,
		Notes:              r.Notes,
		Terms:              r.Terms,
		OrderID:            r.OrderID,
	}
	inv.ID = r.ID
	for _, it := range r.Items {
		inv.Items = append(inv.Items, Item{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.Decimal(),
			TotalPrice:  it.TotalPrice.Decimal(),
			Category:    it.Category,
			ProductCode: it.ProductCode,
		})
	}
	return inv
}

// Record converts a stored invoice back into an InvoiceRecord.
func (inv Invoice) Record() InvoiceRecord {
	r := InvoiceRecord{
		ID:                 inv.ID,
		InvoiceNumber:      inv.InvoiceNumber,
		InvoiceDate:        inv.InvoiceDate,
		TotalAmount:        amount.FromDecimal(inv.TotalAmount),
		Company:            inv.Company,
		IsNewCompany:       inv.IsNewCompany,
		Amount:             amount.FromDecimal(inv.Amount),
		Currency:           inv.Currency,
		DebiteurName:       inv.DebiteurName,
		DueDate:            inv.DueDate,
		VATNumber:          inv.VATNumber,
		Address: Address{
			Street:     inv.Street,
			City:       inv.City,
			PostalCode: inv.PostalCode,
			Country:    inv.Country,
		},
		Subtotal:           amount.FromDecimal(inv.Subtotal),
		DiscountPercentage: amount.FromDecimal(inv.DiscountPercentage),
		DiscountAmount:     amount.FromDecimal(inv.DiscountAmount),
		ShippingAmount:     amount.FromDecimal(inv.ShippingAmount),
		ShipMode:           inv.ShipMode,
		Notes:              inv.Notes,
		Terms:              inv.Terms,
		OrderID:            inv.OrderID,
		Items:              make([]LineItem, 0, len(inv.Items)),
	}
	for _, it := range inv.Items {
		r.Items = append(r.Items, LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   amount.FromDecimal(it.UnitPrice),
			TotalPrice:  amount.FromDecimal(it.TotalPrice),
			Category:    it.Category,
			ProductCode: it.ProductCode,
		})
	}
	return r
}

package extract

import (
	"strconv"

	"github.com/shopspring/decimal"

	"scan-in/pkg/amount"
	"scan-in/pkg/models"
)

var hundred = decimal.NewFromInt(100)

// Assemble merges rule matches and the scan into a complete record.
// Where both could supply a value the scan wins; unmatched fields take
// their defaults. The record always has at least one item.
func Assemble(f Fields, s ScanResult, p Placeholders) models.InvoiceRecord {
	rec := models.InvoiceRecord{
		InvoiceNumber:  f.Text(FieldInvoiceNumber, DefaultInvoiceNumber),
		InvoiceDate:    f.Text(FieldInvoiceDate, DefaultInvoiceDate),
		OrderID:        f.Text(FieldOrderID, DefaultOrderID),
		TotalAmount:    f.Amount(FieldTotal),
		Amount:         f.Amount(FieldBalanceDue),
		Subtotal:       f.Amount(FieldSubtotal),
		DiscountAmount: f.Amount(FieldDiscount),
		ShippingAmount: f.Amount(FieldShipping),
		Company:        p.Company,
		IsNewCompany:   p.IsNewCompany,
		Currency:       p.Currency,
		DueDate:        p.DueDate,
		VATNumber:      p.VATNumber,
		Notes:          p.Notes,
		Terms:          p.Terms,
		DebiteurName:   firstNonEmpty(s.DebtorName, f.Text(FieldDebtor, ""), p.DebtorName),
		ShipMode:       firstNonEmpty(s.ShipMode, f.Text(FieldShipMode, ""), p.ShipMode),
		Address: models.Address{
			Street:     s.Address.Street,
			City:       firstNonEmpty(s.Address.City, f.Text(FieldCity, "")),
			PostalCode: firstNonEmpty(s.Address.PostalCode, f.Text(FieldPostalCode, "")),
			Country:    s.Address.Country,
		},
		Items: assembleItems(f, s),
	}
	rec.DiscountPercentage = discountPercentage(rec.DiscountAmount, rec.Subtotal)
	return rec
}

func assembleItems(f Fields, s ScanResult) []models.LineItem {
	if len(s.Items) > 0 {
		items := make([]models.LineItem, len(s.Items))
		copy(items, s.Items)
		return items
	}
	if !f.Has(FieldItemDescription) {
		return []models.LineItem{{}}
	}
	qty, err := strconv.Atoi(f.Text(FieldItemQuantity, ""))
	if err != nil {
		qty = 0
	}
	return []models.LineItem{{
		Description: f.Text(FieldItemDescription, ""),
		Quantity:    qty,
		UnitPrice:   f.Amount(FieldItemUnitPrice),
		TotalPrice:  f.Amount(FieldItemTotalPrice),
		Category:    f.Text(FieldItemCategory, ""),
		ProductCode: f.Text(FieldItemProductCode, ""),
	}}
}

// discountPercentage is discount as a share of subtotal, or 0.00 when
// either is missing. The result is clamped to 0..100.
func discountPercentage(discount, subtotal amount.Amount) amount.Amount {
	if discount.IsZero() || subtotal.IsZero() {
		return amount.Zero
	}
	pct := discount.Decimal().Div(subtotal.Decimal()).Mul(hundred)
	return amount.FromDecimal(decimal.Max(decimal.Zero, decimal.Min(pct, hundred)))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PriceBreakdown holds the monetary fields of a booking, all at two-decimal
// precision.
type PriceBreakdown struct {
	PricePerPerson decimal.Decimal `json:"price_per_person"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
}

// ComputePrice turns unit price, optional discounted unit price, people count,
// tax rate and a flat discount amount into a booking price breakdown.
//
// Tax applies to the post-discount amount. Intermediate values keep full
// precision; the total is rounded half-up to two decimals and the stored tax
// is derived back from it, so total = subtotal - discount + tax holds exactly
// over the persisted fields.
func ComputePrice(unitPrice decimal.Decimal, discountedUnitPrice decimal.NullDecimal, peopleCount int, taxRate, discountAmount decimal.Decimal) (PriceBreakdown, error) {
	if peopleCount <= 0 {
		return PriceBreakdown{}, ValidationError{Field: "number_of_people", Msg: "must be greater than zero"}
	}
	if !unitPrice.IsPositive() {
		return PriceBreakdown{}, ValidationError{Field: "price", Msg: "unit price must be greater than zero"}
	}
	if taxRate.IsNegative() {
		return PriceBreakdown{}, ValidationError{Field: "tax_rate", Msg: "must not be negative"}
	}
	if discountAmount.IsNegative() {
		return PriceBreakdown{}, ValidationError{Field: "discount", Msg: "must not be negative"}
	}

	pricePerPerson := unitPrice
	if discountedUnitPrice.Valid &&
		discountedUnitPrice.Decimal.IsPositive() &&
		discountedUnitPrice.Decimal.LessThan(unitPrice) {
		pricePerPerson = discountedUnitPrice.Decimal
	}

	subtotal := pricePerPerson.Mul(decimal.NewFromInt(int64(peopleCount)))
	if discountAmount.GreaterThan(subtotal) {
		return PriceBreakdown{}, ValidationError{
			Field: "discount",
			Msg:   fmt.Sprintf("must not exceed subtotal %s", subtotal.StringFixed(2)),
		}
	}

	taxable := subtotal.Sub(discountAmount)
	total := taxable.Add(taxable.Mul(taxRate)).Round(2)
	tax := total.Sub(subtotal).Add(discountAmount)

	return PriceBreakdown{
		PricePerPerson: pricePerPerson.Round(2),
		Subtotal:       subtotal.Round(2),
		Discount:       discountAmount.Round(2),
		Tax:            tax,
		Total:          total,
	}, nil
}

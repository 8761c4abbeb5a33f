package booking

import "math"

const basisPoints = 10000

// Pricing holds the surcharges applied at commit time.  The tax rate is
// kept in basis points (1800 = 18%) so the tax is computed exactly on
// integer cents.
type Pricing struct {
	ConvenienceFeeCents int64
	TaxRateBP           int64
}

// DefaultPricing is a flat 49.00 convenience fee and 18% tax.
func DefaultPricing() Pricing {
	return Pricing{ConvenienceFeeCents: 4900, TaxRateBP: 1800}
}

// TaxRateBP converts a fractional rate (0.18) into basis points.
func TaxRateBP(rate float64) int64 {
	return int64(math.Round(rate * basisPoints))
}

// Quote is the price breakdown of a selection.
type Quote struct {
	SubtotalCents       int64 `json:"subtotal_cents"`
	ConvenienceFeeCents int64 `json:"convenience_fee_cents"`
	TaxCents            int64 `json:"tax_cents"`
	TotalCents          int64 `json:"total_cents"`
}

// Quote prices a subtotal.  Tax is rounded half up to the cent.
func (p Pricing) Quote(subtotalCents int64) Quote {
	tax := (subtotalCents*p.TaxRateBP + basisPoints/2) / basisPoints
	return Quote{
		SubtotalCents:       subtotalCents,
		ConvenienceFeeCents: p.ConvenienceFeeCents,
		TaxCents:            tax,
		TotalCents:          subtotalCents + p.ConvenienceFeeCents + tax,
	}
}

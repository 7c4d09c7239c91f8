package domain

import "fmt"

// RateKind selects which quoted price basis a conversion uses. Only the
// selling basis existed first; the buying variants pick the buy price column
// instead of being cosmetic labels.
type RateKind string

const (
	SellingRate      RateKind = "selling_rate"
	CashBuyingRate   RateKind = "cash_buying_rate"
	ChequeBuyingRate RateKind = "cheque_buying_rate"
)

// ParseRateKind maps the wire representation to a RateKind.
func ParseRateKind(s string) (RateKind, error) {
	switch RateKind(s) {
	case SellingRate, CashBuyingRate, ChequeBuyingRate:
		return RateKind(s), nil
	case "":
		return SellingRate, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRateKind, s)
	}
}

// UsesBuyPrice reports whether the kind reads the buy price column. Both
// buying variants do; the stored schema carries one buy price per row.
func (k RateKind) UsesBuyPrice() bool {
	return k == CashBuyingRate || k == ChequeBuyingRate
}

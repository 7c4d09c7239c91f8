package rate

import (
	"context"
	"time"

	"bojrates/internal/adapters"
	"bojrates/internal/currency"
	"bojrates/internal/domain"

	"github.com/shopspring/decimal"
)

// Conversion is the result of converting an amount: the converted value at
// the target currency's scale, plus the rate that produced it.
type Conversion struct {
	Amount decimal.Decimal
	Rate   decimal.Decimal
}

// ConversionService converts amounts between currencies over the stored
// counter rates.
type ConversionService struct {
	provider adapters.RateProvider
}

func NewConversionService(provider adapters.RateProvider) *ConversionService {
	return &ConversionService{provider: provider}
}

// Convert turns sourceAmount of sourceCurrency into targetCurrency on the
// given day (zero date: latest ingested day). The amount is rounded
// half-to-even at the target currency's ISO minor-unit scale.
func (s *ConversionService) Convert(ctx context.Context, targetCurrency string, sourceAmount decimal.Decimal, sourceCurrency string, date time.Time, kind domain.RateKind) (Conversion, error) {
	r, err := s.provider.Rate(ctx, targetCurrency, sourceCurrency, date, kind)
	if err != nil {
		return Conversion{}, err
	}

	converted := sourceAmount.Mul(r).RoundBank(currency.Scale(targetCurrency))
	return Conversion{Amount: converted, Rate: r}, nil
}

package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bojrates/internal/adapters"
	"bojrates/internal/domain"

	"github.com/shopspring/decimal"
)

// rateScale is the precision of rates handed to callers.
const rateScale = 4

var one = decimal.NewFromInt(1)

// TriangulatingProvider computes a rate between any two ISO currencies even
// though stored quotes only express each currency against the base currency.
// Rate(a, b) is the amount of a equal to one unit of b, derived as
// base→b over base→a, the standard cross-rate-through-base identity.
type TriangulatingProvider struct {
	repo  adapters.ExchangeRateRepository
	cache adapters.RateCache
}

func NewTriangulatingProvider(repo adapters.ExchangeRateRepository, cache adapters.RateCache) *TriangulatingProvider {
	return &TriangulatingProvider{repo: repo, cache: cache}
}

// Rate resolves the source→target rate for the given day; a zero date means
// the most recent ingested day. The result is rounded to 4 decimal places
// half-to-even. Rounding is applied only here, never on individual legs, so
// triangulation does not compound rounding error.
func (p *TriangulatingProvider) Rate(ctx context.Context, source, target string, date time.Time, kind domain.RateKind) (decimal.Decimal, error) {
	day, err := p.resolveDay(ctx, date)
	if err != nil {
		return decimal.Decimal{}, err
	}

	value, err := p.crossRate(ctx, source, target, day, kind)
	if err != nil {
		if errors.Is(err, domain.ErrRateUnavailable) {
			return decimal.Decimal{}, fmt.Errorf("no rate available to convert %s to %s: %w", source, target, err)
		}
		return decimal.Decimal{}, err
	}
	return value.RoundBank(rateScale), nil
}

func (p *TriangulatingProvider) crossRate(ctx context.Context, source, target string, day time.Time, kind domain.RateKind) (decimal.Decimal, error) {
	switch {
	case source == domain.BaseCurrency && target == domain.BaseCurrency:
		return one, nil
	case source == domain.BaseCurrency:
		return p.leg(ctx, target, day, kind)
	case target == domain.BaseCurrency:
		srcLeg, err := p.leg(ctx, source, day, kind)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return one.Div(srcLeg), nil
	default:
		tgtLeg, err := p.leg(ctx, target, day, kind)
		if err != nil {
			return decimal.Decimal{}, err
		}
		srcLeg, err := p.leg(ctx, source, day, kind)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return tgtLeg.Div(srcLeg), nil
	}
}

// leg resolves the stored base→currency quote for the first date on or after
// day. Resolved legs are cached for a day keyed by currency, date and kind.
func (p *TriangulatingProvider) leg(ctx context.Context, cur string, day time.Time, kind domain.RateKind) (decimal.Decimal, error) {
	key := legCacheKey(cur, day, kind)
	if v, ok := p.cache.GetRate(key); ok {
		return v, nil
	}

	v, err := p.repo.FirstOnOrAfter(ctx, cur, day, kind)
	if err != nil {
		if errors.Is(err, domain.ErrRateUnavailable) {
			return decimal.Decimal{}, fmt.Errorf("%w: missing rate for %s on %s", domain.ErrRateUnavailable, cur, day.Format(inputDateLayout))
		}
		return decimal.Decimal{}, err
	}

	p.cache.SetRate(key, v)
	return v, nil
}

func legCacheKey(cur string, day time.Time, kind domain.RateKind) string {
	return fmt.Sprintf("exchange_rate_%s_%s_%s_%s", domain.BaseCurrency, cur, day.Format(inputDateLayout), kind)
}

// resolveDay substitutes the most recent ingested date when the caller gave
// none. The sentinel is cached to avoid a repository scan on every call.
func (p *TriangulatingProvider) resolveDay(ctx context.Context, date time.Time) (time.Time, error) {
	if !date.IsZero() {
		return date, nil
	}

	if t, ok := p.cache.GetMaxDate(); ok {
		return t, nil
	}

	maxDate, err := p.repo.MaxDate(ctx)
	if err != nil {
		return time.Time{}, err
	}
	p.cache.SetMaxDate(maxDate)
	return maxDate, nil
}

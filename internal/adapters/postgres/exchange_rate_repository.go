package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"bojrates/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type ExchangeRateRepository struct {
	pool *pgxpool.Pool
}

// Save persists all records inside one transaction. Either every row is
// committed or none are; partial writes never survive.
func (r *ExchangeRateRepository) Save(ctx context.Context, rates []domain.ExchangeRate) error {
	if len(rates) == 0 {
		return nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `
		insert into exchange_rates (date, currency, buy_price, sell_price, notes, coins)
		values ($1, $2, $3, $4, $5, $6);
	`
	for _, rate := range rates {
		_, err = tx.Exec(ctx, q,
			rate.Date,
			rate.Currency,
			rate.BuyPrice.String(),
			rate.SellPrice.String(),
			rate.Notes,
			rate.Coins,
		)
		if err != nil {
			return fmt.Errorf("failed to insert rate for %q on %s: %w",
				rate.Currency, rate.Date.Format("2006-01-02"), err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *ExchangeRateRepository) MaxDate(ctx context.Context) (time.Time, error) {
	var maxDate *time.Time
	if err := r.pool.QueryRow(ctx, `select max(date) from exchange_rates`).Scan(&maxDate); err != nil {
		return time.Time{}, fmt.Errorf("failed to select max rate date: %w", err)
	}
	if maxDate == nil {
		return time.Time{}, domain.ErrNoRatesStored
	}
	return *maxDate, nil
}

// FirstOnOrAfter returns the price of the earliest quote for the currency on
// or after the given day. The requested date is a lower bound: weekend and
// holiday gaps resolve to the next published quote, not the previous one.
func (r *ExchangeRateRepository) FirstOnOrAfter(ctx context.Context, currency string, date time.Time, kind domain.RateKind) (decimal.Decimal, error) {
	column := "sell_price"
	if kind.UsesBuyPrice() {
		column = "buy_price"
	}

	q := fmt.Sprintf(`
		select %s from exchange_rates
		where currency = $1 and date >= $2
		order by date asc
		limit 1;
	`, column)

	var raw string
	if err := r.pool.QueryRow(ctx, q, currency, date).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Decimal{}, domain.ErrRateUnavailable
		}
		return decimal.Decimal{}, fmt.Errorf("failed to select rate for %q: %w", currency, err)
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("stored price for %q is not a decimal: %w", currency, err)
	}
	return price, nil
}

func (r *ExchangeRateRepository) AnyInRange(ctx context.Context, lower, upper time.Time) (bool, error) {
	q := `select exists(select 1 from exchange_rates where date >= $1)`
	args := []any{lower}
	if !upper.IsZero() {
		q = `select exists(select 1 from exchange_rates where date >= $1 and date <= $2)`
		args = append(args, upper)
	}

	var found bool
	if err := r.pool.QueryRow(ctx, q, args...).Scan(&found); err != nil {
		return false, fmt.Errorf("failed to check stored rates range: %w", err)
	}
	return found, nil
}

// DistinctCurrencies lists every stored ISO code plus the base currency,
// which is the implicit hub and never quoted against itself.
func (r *ExchangeRateRepository) DistinctCurrencies(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `select distinct currency from exchange_rates`)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct currencies: %w", err)
	}
	defer rows.Close()

	codes := make([]string, 0, 32)
	for rows.Next() {
		var c string
		if err = rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		codes = append(codes, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currencies: %w", err)
	}

	if !slices.Contains(codes, domain.BaseCurrency) {
		codes = append(codes, domain.BaseCurrency)
	}
	slices.Sort(codes)
	return codes, nil
}

func NewExchangeRateRepository(pool *pgxpool.Pool) *ExchangeRateRepository {
	return &ExchangeRateRepository{pool: pool}
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BaseCurrency is the reference currency every stored quote is expressed in.
// The BOJ publishes counter rates against the Jamaican dollar only, so it is
// the single triangulation hub.
const BaseCurrency = "JMD"

// ExchangeRate is one published counter-rate row: the buy/sell price of one
// unit of Currency in JMD on Date. Prices keep the source precision, they are
// never passed through binary floats.
type ExchangeRate struct {
	Date      time.Time
	Currency  string
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
	Notes     *string
	Coins     *string
}

// DateRange scopes an upstream fetch or a stored-rates lookup. A zero End
// means no explicit end was given: upstream searches send the single Start
// date, stored-rates predicates leave the upper bound open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Bounded reports whether an explicit end date was supplied.
func (r DateRange) Bounded() bool {
	return !r.End.IsZero()
}

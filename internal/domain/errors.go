package domain

import "errors"

var (
	ErrRateUnavailable = errors.New("exchange rate unavailable")
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrFeedUnavailable = errors.New("rate feed unavailable")
	ErrNoRatesStored   = errors.New("no exchange rates stored")
	ErrInvalidRateKind = errors.New("invalid rate kind")
)

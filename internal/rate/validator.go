package rate

import (
	"errors"
	"maps"
	"slices"
)

var (
	ErrSourceRequired    = errors.New("source currency is required")
	ErrTargetRequired    = errors.New("target currency is required")
	ErrSourceUnsupported = errors.New("source currency not supported")
	ErrTargetUnsupported = errors.New("target currency not supported")
)

// CurrencyValidator checks request currencies against the codes the upstream
// feed can ever produce, before any repository work happens.
type CurrencyValidator struct {
	supportedCodesSet map[string]struct{} // read only copy
	supportedCodesLst []string            // read only copy
}

func (v *CurrencyValidator) ValidateCodes(source, target string) error {
	if source == "" {
		return ErrSourceRequired
	}
	if target == "" {
		return ErrTargetRequired
	}
	if _, ok := v.supportedCodesSet[source]; !ok {
		return ErrSourceUnsupported
	}
	if _, ok := v.supportedCodesSet[target]; !ok {
		return ErrTargetUnsupported
	}
	return nil
}

func (v *CurrencyValidator) SupportedCodes() []string {
	return slices.Clone(v.supportedCodesLst)
}

func NewValidator(supportedCurrencies map[string]struct{}) *CurrencyValidator {
	codesSet := maps.Clone(supportedCurrencies)
	codesLst := slices.Collect(maps.Keys(codesSet))
	slices.Sort(codesLst)

	return &CurrencyValidator{
		supportedCodesSet: codesSet,
		supportedCodesLst: codesLst,
	}
}

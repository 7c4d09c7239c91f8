// Package currency translates the currency display names the BOJ site emits
// into ISO 4217 codes. The table enumerates every distinct upstream spelling
// observed so far, including near-duplicates such as "DANISH KRONA" vs
// "DANISH KRONE".
package currency

import (
	"fmt"
	"strings"

	"bojrates/internal/domain"
)

var bojToISO = map[string]string{
	"AUSTRALIAN DOLLAR":      "AUD",
	"BAHAMAS DOLLAR":         "BSD",
	"BARBADOS DOLLAR":        "BBD",
	"BELIZE DOLLAR":          "BZD",
	"CANADA DOLLAR":          "CAD",
	"CAYMAN DOLLAR":          "KYD",
	"DANISH KRONA":           "DKK",
	"DANISH KRONE":           "DKK",
	"DOMINICAN REP. PESO":    "DOP",
	"E. C. DOLLAR":           "XCD",
	"EURO":                   "EUR",
	"GIBRALTAR POUND":        "GIP",
	"GREAT BRITAIN POUND":    "GBP",
	"GUYANA DOLLAR":          "GYD",
	"HONG KONG DOLLAR":       "HKD",
	"JAMAICA DOLLAR":         "JMD",
	"JAPANESE YEN":           "JPY",
	"NORTHERN IRELAND POUND": "GBP",
	"NORWEGIAN KRONE":        "NOK",
	"SWEDISH KRONA":          "SEK",
	"SWISS FRANC":            "CHF",
	"T&T DOLLAR":             "TTD",
	"U.S. DOLLAR":            "USD",
}

// ToISO converts a BOJ currency display name to its ISO 4217 code. The name
// is trimmed before the exact-match lookup. An unmapped name is an error, not
// a skip: downstream conversion assumes every persisted currency is ISO-valid.
func ToISO(bojName string) (string, error) {
	name := strings.TrimSpace(bojName)
	iso, ok := bojToISO[name]
	if !ok {
		return "", fmt.Errorf("%w: %q not found in currency map", domain.ErrUnknownCurrency, name)
	}
	return iso, nil
}

// ISOCodes returns the set of ISO codes the feed can ever produce, plus the
// base currency. Conversion requests are validated against this set.
func ISOCodes() map[string]struct{} {
	set := make(map[string]struct{}, len(bojToISO)+1)
	for _, iso := range bojToISO {
		set[iso] = struct{}{}
	}
	set[domain.BaseCurrency] = struct{}{}
	return set
}

// KnownNames returns every BOJ display name in the map. Used by tests and the
// ingestion diagnostics log.
func KnownNames() []string {
	names := make([]string, 0, len(bojToISO))
	for name := range bojToISO {
		names = append(names, name)
	}
	return names
}

package currency

// ISO 4217 minor-unit exponents for the currencies the BOJ quotes. Everything
// here uses two decimal places except the yen.
var minorUnits = map[string]int32{
	"JPY": 0,
}

// Scale returns the number of decimal places amounts in the given ISO
// currency are expressed with.
func Scale(isoCode string) int32 {
	if s, ok := minorUnits[isoCode]; ok {
		return s
	}
	return 2
}

package codec

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ToMajor converts minor units to the major-unit number written to sheet
// cells.
func ToMajor(cents int64) float64 {
	f, _ := decimal.New(cents, -2).Float64()
	return f
}

// ToCents parses a monetary cell into minor units, rounding half away from
// zero at the second decimal place. Unparseable cells yield 0.
func ToCents(cell any) int64 {
	d, ok := toDecimal(cell)
	if !ok {
		return 0
	}
	return d.Shift(2).Round(0).IntPart()
}

// MajorToCents converts a user-entered major-unit value (CLI flags) into
// minor units.
func MajorToCents(major string) (int64, bool) {
	d, ok := toDecimal(major)
	if !ok {
		return 0, false
	}
	return d.Shift(2).Round(0).IntPart(), true
}

func toDecimal(cell any) (decimal.Decimal, bool) {
	switch v := cell.(type) {
	case nil:
		return decimal.Decimal{}, false
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.Decimal{}, false
		}
		// Legacy sheets carry comma decimal separators.
		if strings.Contains(s, ",") && !strings.Contains(s, ".") {
			s = strings.ReplaceAll(s, ",", ".")
		}
		s = strings.TrimPrefix(s, "R$")
		s = strings.TrimPrefix(s, "$")
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

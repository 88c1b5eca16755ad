// Package present derives display values from normalized results. Everything
// here is pure and side-effect free, safe to recompute on every render; no
// derived value is ever cached or trusted from the server.
package present

import (
	"fmt"
	"strings"

	"github.com/adeyinka/paydesk/internal/domain"
)

// NotAvailable is rendered wherever a derived value cannot be computed.
const NotAvailable = "N/A"

// NetAmount computes amount minus fee minus the system fee (stamp duty for
// transfers). Always recomputed from the raw fields.
func NetAmount(r *domain.Result) float64 {
	return r.Amount - r.Fee - r.SystemFee
}

// FeePercent returns the fee as a percentage of the amount. The boolean is
// false when the amount is zero, in which case the percentage is undefined
// and must render as N/A rather than Inf or NaN.
func FeePercent(r *domain.Result) (float64, bool) {
	if r.Amount == 0 {
		return 0, false
	}
	return (r.Fee / r.Amount) * 100, true
}

// FormatFeePercent renders the fee percentage to two decimals, or N/A when
// the amount is zero.
func FormatFeePercent(r *domain.Result) string {
	pct, ok := FeePercent(r)
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatMoney renders an amount with thousands separators, two decimals and
// the currency code, e.g. "9,850.00 NGN".
func FormatMoney(amount float64, currency string) string {
	formatted := groupThousands(fmt.Sprintf("%.2f", amount))
	if currency == "" {
		return formatted
	}
	return formatted + " " + currency
}

// groupThousands inserts comma separators into the integer part of a
// fixed-point decimal string.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

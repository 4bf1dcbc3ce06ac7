package statement

import (
	"math"
	"strconv"
	"strings"

	"github.com/brunooviedo/estadodecuenta/internal/domain"

	"github.com/shopspring/decimal"
)

// InstallmentResult is the divisor derived from an installment token.
type InstallmentResult struct {
	Count int
	// Assumed is set when Count fell back to 1; Reason says why.
	Assumed bool
	Reason  string
}

// NormalizeInstallments turns a token such as "01/03", "3" or "" into a divisor >= 1.
// It never fails: absent or malformed tokens yield 1 with Assumed set.
//
// For "current/total" tokens the segment after the separator is the total.
func NormalizeInstallments(token string) InstallmentResult {
	t := strings.TrimSpace(token)
	if t == "" {
		return assumed(domain.InstallmentsAbsent)
	}

	if f, err := strconv.ParseFloat(strings.ReplaceAll(t, ",", "."), 64); err == nil {
		if n, ok := positiveInt(f); ok {
			return InstallmentResult{Count: n}
		}
		return assumed(domain.InstallmentsMalformed)
	}

	parts := strings.Split(t, "/")
	if len(parts) != 2 {
		return assumed(domain.InstallmentsMalformed)
	}
	total, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || total <= 0 {
		return assumed(domain.InstallmentsMalformed)
	}
	return InstallmentResult{Count: total}
}

func assumed(reason string) InstallmentResult {
	return InstallmentResult{Count: 1, Assumed: true, Reason: reason}
}

func positiveInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 1 || f > math.MaxInt32 || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// Allocate returns the share of total billed in this period.
// A null total or a non-positive count yields zero.
func Allocate(total decimal.NullDecimal, count int) decimal.Decimal {
	if !total.Valid || count <= 0 {
		return decimal.Zero
	}
	return total.Decimal.Div(decimal.NewFromInt(int64(count)))
}

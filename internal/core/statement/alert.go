package statement

import (
	"github.com/brunooviedo/estadodecuenta/internal/config"
	"github.com/brunooviedo/estadodecuenta/internal/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PercentSpent returns totalCharges as a percentage of availableBalance.
func PercentSpent(totalCharges, availableBalance decimal.Decimal) (float64, error) {
	if availableBalance.IsZero() {
		return 0, ErrDivisionByZeroConfig
	}
	pct, _ := totalCharges.Div(availableBalance).Mul(hundred).Float64()
	return pct, nil
}

// EvaluateAlert picks the first matching tier: early month, mid month, then critical.
func EvaluateAlert(day int, percent float64, th config.AlertThresholds) (domain.AlertTier, error) {
	if day < 1 || day > 31 {
		return "", ErrInvalidDayOfMonth
	}
	switch {
	case day <= th.EarlyDay && percent > th.EarlyPercent:
		return domain.AlertEarlyOverspend, nil
	case day <= th.MidDay && percent > th.MidPercent:
		return domain.AlertMidMonthOverspend, nil
	case percent > th.CriticalPercent:
		return domain.AlertCriticalOverspend, nil
	}
	return domain.AlertNominal, nil
}

// evaluateBudget runs both steps and folds failures into the result instead of aborting.
func evaluateBudget(summary domain.AggregateReport, day int, th config.AlertThresholds) domain.AlertResult {
	result := domain.AlertResult{DayOfMonth: day}

	pct, err := PercentSpent(summary.TotalCharges, summary.AvailableBalance)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.PercentSpent = &pct

	tier, err := EvaluateAlert(day, pct, th)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Tier = tier
	return result
}

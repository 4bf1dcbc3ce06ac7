package statement

import (
	"sort"

	"github.com/brunooviedo/estadodecuenta/internal/domain"

	"github.com/shopspring/decimal"
)

// AggregateOptions shapes the by-description table.
type AggregateOptions struct {
	GroupMode domain.GroupMode
	SortMode  domain.SortMode
	// TopN keeps only the first N groups after sorting; <= 0 keeps all.
	TopN int
}

// Aggregate sums charges and credits and groups records by description.
// Records whose period amount is exactly zero count in neither sum.
func Aggregate(records []domain.TransactionRecord, availableBalance decimal.Decimal, opts AggregateOptions) domain.AggregateReport {
	report := domain.AggregateReport{
		TotalCharges:     decimal.Zero,
		TotalCredits:     decimal.Zero,
		AvailableBalance: availableBalance,
		GroupMode:        opts.GroupMode,
		SortMode:         opts.SortMode,
		ByDescription:    []domain.DescriptionGroup{},
	}

	groups := make(map[string]*domain.DescriptionGroup)
	for _, r := range records {
		sign := r.AmountPeriod.Sign()
		switch {
		case sign > 0:
			report.TotalCharges = report.TotalCharges.Add(r.AmountPeriod)
			report.ChargeCount++
		case sign < 0:
			report.TotalCredits = report.TotalCredits.Add(r.AmountPeriod)
			report.CreditCount++
		default:
			report.ZeroCount++
		}
		if r.InstallmentsAssumed {
			report.AssumedInstallments++
		}

		if !inGroupMode(sign, opts.GroupMode) {
			continue
		}
		g, ok := groups[r.Description]
		if !ok {
			g = &domain.DescriptionGroup{Description: r.Description, Sum: decimal.Zero}
			groups[r.Description] = g
		}
		g.Count++
		g.Sum = g.Sum.Add(r.AmountPeriod)
	}

	report.RemainingBalance = availableBalance.Sub(report.TotalCharges)

	for _, g := range groups {
		report.ByDescription = append(report.ByDescription, *g)
	}
	sortGroups(report.ByDescription, opts.SortMode)
	if opts.TopN > 0 && len(report.ByDescription) > opts.TopN {
		report.ByDescription = report.ByDescription[:opts.TopN]
	}
	return report
}

func inGroupMode(sign int, mode domain.GroupMode) bool {
	switch mode {
	case domain.GroupExpensesOnly:
		return sign < 0
	case domain.GroupChargesOnly:
		return sign > 0
	default:
		return true
	}
}

func sortGroups(groups []domain.DescriptionGroup, mode domain.SortMode) {
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if mode == domain.SortByTotal {
			if c := a.Sum.Abs().Cmp(b.Sum.Abs()); c != 0 {
				return c > 0
			}
		} else if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Description < b.Description
	})
}

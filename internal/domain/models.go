// package domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Field names the semantic columns of a statement.
type Field string

// Semantic fields resolved from the spreadsheet columns.
const (
	FieldDate         Field = "Date"
	FieldCardType     Field = "CardType"
	FieldDescription  Field = "Description"
	FieldCity         Field = "City"
	FieldInstallments Field = "Installments"
	FieldAmount       Field = "Amount"
)

// AllFields lists the fields in presentation order.
var AllFields = []Field{FieldDate, FieldCardType, FieldDescription, FieldCity, FieldInstallments, FieldAmount}

// GroupMode selects which records take part in the by-description table.
type GroupMode string

const (
	GroupExpensesOnly GroupMode = "expenses_only"
	GroupChargesOnly  GroupMode = "charges_only"
	GroupAll          GroupMode = "all"
)

// SortMode selects the presentation order of the by-description table.
type SortMode string

const (
	SortByCount SortMode = "by_count"
	SortByTotal SortMode = "by_total"
)

// AlertTier is the budget warning level.
type AlertTier string

const (
	AlertNominal           AlertTier = "Nominal"
	AlertEarlyOverspend    AlertTier = "EarlyOverspend"
	AlertMidMonthOverspend AlertTier = "MidMonthOverspend"
	AlertCriticalOverspend AlertTier = "CriticalOverspend"
)

// Reasons attached to an assumed installment count.
const (
	InstallmentsAbsent    = "absent"
	InstallmentsMalformed = "malformed"
)

// TransactionRecord is one statement line after normalization.
type TransactionRecord struct {
	Row               int                 `json:"row"`
	Date              *time.Time          `json:"date,omitempty"`
	DateRaw           string              `json:"date_raw,omitempty"`
	CardType          string              `json:"card_type,omitempty"`
	Description       string              `json:"description"`
	City              string              `json:"city,omitempty"`
	InstallmentsRaw   string              `json:"installments_raw,omitempty"`
	InstallmentsCount int                 `json:"installments_count"`
	AmountTotal       decimal.NullDecimal `json:"amount_total"`
	AmountPeriod      decimal.Decimal     `json:"amount_period"`

	// InstallmentsAssumed marks records whose divisor fell back to 1.
	InstallmentsAssumed bool   `json:"installments_assumed"`
	AssumedReason       string `json:"assumed_reason,omitempty"`
}

// DescriptionGroup is one row of the by-description table.
type DescriptionGroup struct {
	Description string          `json:"description"`
	Count       int             `json:"count"`
	Sum         decimal.Decimal `json:"sum"`
}

// AggregateReport is the read-only summary over a set of records.
type AggregateReport struct {
	TotalCharges        decimal.Decimal    `json:"total_charges"`
	TotalCredits        decimal.Decimal    `json:"total_credits"`
	AvailableBalance    decimal.Decimal    `json:"available_balance"`
	RemainingBalance    decimal.Decimal    `json:"remaining_balance"`
	ChargeCount         int                `json:"charge_count"`
	CreditCount         int                `json:"credit_count"`
	ZeroCount           int                `json:"zero_count"`
	AssumedInstallments int                `json:"assumed_installments"`
	GroupMode           GroupMode          `json:"group_mode"`
	SortMode            SortMode           `json:"sort_mode"`
	ByDescription       []DescriptionGroup `json:"by_description"`
}

// AlertResult carries the budget alert, or the reason it could not be computed.
type AlertResult struct {
	Tier         AlertTier `json:"tier,omitempty"`
	DayOfMonth   int       `json:"day_of_month"`
	PercentSpent *float64  `json:"percent_spent,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// AnalysisInput holds the user-supplied figures for one run.
type AnalysisInput struct {
	AvailableBalance decimal.Decimal
	DayOfMonth       int
}

// StatementReport is the terminal artifact handed to the presentation layer.
type StatementReport struct {
	RunID      string              `json:"run_id"`
	Engine     string              `json:"engine"`
	Columns    map[Field]int       `json:"columns"`
	Preview    [][]string          `json:"preview"`
	Records    []TransactionRecord `json:"records"`
	Summary    AggregateReport     `json:"summary"`
	HasCredits bool                `json:"has_credits"`
	Alert      AlertResult         `json:"alert"`
}

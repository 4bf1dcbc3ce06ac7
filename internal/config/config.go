package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/brunooviedo/estadodecuenta/internal/domain"

	"github.com/joho/godotenv"
	"github.com/xuri/excelize/v2"
)

// Strategy selects how spreadsheet columns are mapped to semantic fields.
type Strategy string

const (
	StrategyPositional Strategy = "positional"
	StrategyNamed      Strategy = "named"
)

// Engine selects the spreadsheet decoder.
type Engine string

const (
	EngineAuto Engine = "auto"
	EngineXLSX Engine = "xlsx"
	EngineXLS  Engine = "xls"
	EngineCSV  Engine = "csv"
)

// ChargeSign tells which amount sign the issuing bank uses for charges.
type ChargeSign string

const (
	ChargesPositive ChargeSign = "positive"
	ChargesNegative ChargeSign = "negative"
)

// Offsets are column positions relative to the start of the sliced range.
// A negative offset means the field is not present in the export.
type Offsets struct {
	Date         int
	CardType     int
	Description  int
	City         int
	Installments int
	Amount       int
}

// Of returns the offset configured for field.
func (o Offsets) Of(field domain.Field) int {
	switch field {
	case domain.FieldDate:
		return o.Date
	case domain.FieldCardType:
		return o.CardType
	case domain.FieldDescription:
		return o.Description
	case domain.FieldCity:
		return o.City
	case domain.FieldInstallments:
		return o.Installments
	case domain.FieldAmount:
		return o.Amount
	}
	return -1
}

// AlertThresholds drives the budget alert tiers.
type AlertThresholds struct {
	EarlyDay        int
	EarlyPercent    float64
	MidDay          int
	MidPercent      float64
	CriticalPercent float64
}

// Pipeline is the full set of parameters for one statement run.
type Pipeline struct {
	// HeaderSkip is the number of leading rows dropped before the table.
	HeaderSkip int

	// HasHeaderRow marks the first row after the skip as column titles.
	HasHeaderRow bool

	// ColumnRange restricts the grid to a span like "B:K". Empty keeps every column.
	ColumnRange string

	// SheetName picks the worksheet; empty means the first one.
	SheetName string

	// TopN truncates the by-description table. Zero means unlimited.
	TopN int

	Engine      Engine
	Strategy    Strategy
	Offsets     Offsets
	ChargeSign  ChargeSign
	GroupMode   domain.GroupMode
	SortMode    domain.SortMode
	MinDataRows int
	Alerts      AlertThresholds
}

// DefaultPipeline matches the most common bank export template.
func DefaultPipeline() Pipeline {
	return Pipeline{
		HeaderSkip:   17,
		HasHeaderRow: true,
		Engine:       EngineAuto,
		Strategy:     StrategyPositional,
		Offsets: Offsets{
			Date:         0,
			CardType:     2,
			Description:  4,
			City:         5,
			Installments: 7,
			Amount:       10,
		},
		ChargeSign:  ChargesPositive,
		GroupMode:   domain.GroupExpensesOnly,
		SortMode:    domain.SortByCount,
		TopN:        15,
		MinDataRows: 1,
		Alerts: AlertThresholds{
			EarlyDay:        10,
			EarlyPercent:    30,
			MidDay:          20,
			MidPercent:      60,
			CriticalPercent: 90,
		},
	}
}

// ColumnSpan is an inclusive, zero-based column interval.
type ColumnSpan struct {
	Start int
	End   int
}

// ParseColumnRange converts "B:K" (or "B-K") into a zero-based span.
func ParseColumnRange(s string) (ColumnSpan, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ':' || r == '-' })
	if len(parts) != 2 {
		return ColumnSpan{}, fmt.Errorf("invalid column range '%s': expected form B:K", s)
	}
	start, err := excelize.ColumnNameToNumber(strings.TrimSpace(parts[0]))
	if err != nil {
		return ColumnSpan{}, fmt.Errorf("invalid column range '%s': %w", s, err)
	}
	end, err := excelize.ColumnNameToNumber(strings.TrimSpace(parts[1]))
	if err != nil {
		return ColumnSpan{}, fmt.Errorf("invalid column range '%s': %w", s, err)
	}
	if end < start {
		return ColumnSpan{}, fmt.Errorf("invalid column range '%s': end before start", s)
	}
	return ColumnSpan{Start: start - 1, End: end - 1}, nil
}

// Validate reports every invalid parameter at once.
func (p Pipeline) Validate() error {
	var problems []string

	if p.HeaderSkip < 0 {
		problems = append(problems, fmt.Sprintf("invalid header skip %d: must be >= 0", p.HeaderSkip))
	}
	if p.ColumnRange != "" {
		if _, err := ParseColumnRange(p.ColumnRange); err != nil {
			problems = append(problems, err.Error())
		}
	}
	switch p.Engine {
	case EngineAuto, EngineXLSX, EngineXLS, EngineCSV:
	default:
		problems = append(problems, fmt.Sprintf("invalid engine '%s': must be one of auto, xlsx, xls, csv", p.Engine))
	}
	switch p.Strategy {
	case StrategyPositional, StrategyNamed:
	default:
		problems = append(problems, fmt.Sprintf("invalid strategy '%s': must be positional or named", p.Strategy))
	}
	switch p.ChargeSign {
	case ChargesPositive, ChargesNegative:
	default:
		problems = append(problems, fmt.Sprintf("invalid charge sign '%s': must be positive or negative", p.ChargeSign))
	}
	switch p.GroupMode {
	case domain.GroupExpensesOnly, domain.GroupChargesOnly, domain.GroupAll:
	default:
		problems = append(problems, fmt.Sprintf("invalid group mode '%s': must be expenses_only, charges_only or all", p.GroupMode))
	}
	switch p.SortMode {
	case domain.SortByCount, domain.SortByTotal:
	default:
		problems = append(problems, fmt.Sprintf("invalid sort mode '%s': must be by_count or by_total", p.SortMode))
	}
	if p.TopN < 0 {
		problems = append(problems, fmt.Sprintf("invalid top N %d: must be >= 0", p.TopN))
	}
	if p.MinDataRows < 0 {
		problems = append(problems, fmt.Sprintf("invalid minimum data rows %d: must be >= 0", p.MinDataRows))
	}
	if p.Offsets.Description < 0 || p.Offsets.Amount < 0 {
		problems = append(problems, "description and amount offsets must be >= 0")
	}

	if len(problems) > 0 {
		return errors.New("configuration validation failed: " + strings.Join(problems, "; "))
	}
	return nil
}

// Server holds the HTTP settings.
type Server struct {
	Port    string
	GinMode string
}

// LoadEnv reads .env into the process environment without overriding existing variables.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Print(".env file not found, using process environment")
			return
		}
		log.Printf("failed to load .env: %v", err)
		return
	}
	log.Print("environment variables loaded from .env")
}

// LoadServer reads the HTTP settings from the environment.
func LoadServer() Server {
	return Server{
		Port:    getEnv("PORT", "8084"),
		GinMode: getEnv("GIN_MODE", "release"),
	}
}

// LoadPipeline applies STATEMENT_* environment overrides on top of base.
func LoadPipeline(base Pipeline) (Pipeline, error) {
	p := base
	p.HeaderSkip = getEnvInt("STATEMENT_HEADER_SKIP", p.HeaderSkip)
	p.ColumnRange = getEnv("STATEMENT_COLUMN_RANGE", p.ColumnRange)
	p.Engine = Engine(getEnv("STATEMENT_ENGINE", string(p.Engine)))
	p.SheetName = getEnv("STATEMENT_SHEET_NAME", p.SheetName)
	p.Strategy = Strategy(getEnv("STATEMENT_STRATEGY", string(p.Strategy)))
	p.ChargeSign = ChargeSign(getEnv("STATEMENT_CHARGE_SIGN", string(p.ChargeSign)))
	p.GroupMode = domain.GroupMode(getEnv("STATEMENT_GROUP_MODE", string(p.GroupMode)))
	p.SortMode = domain.SortMode(getEnv("STATEMENT_SORT_MODE", string(p.SortMode)))
	p.TopN = getEnvInt("STATEMENT_TOP_N", p.TopN)
	p.MinDataRows = getEnvInt("STATEMENT_MIN_ROWS", p.MinDataRows)

	if err := p.Validate(); err != nil {
		return base, err
	}
	return p, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
		log.Printf("ignoring %s=%q: not an integer", key, value)
	}
	return defaultValue
}

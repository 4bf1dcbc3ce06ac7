// package statement/service.go
package statement

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brunooviedo/estadodecuenta/internal/config"
	"github.com/brunooviedo/estadodecuenta/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const previewRows = 5

// Service defines the interface for credit-card statement analysis.
type Service interface {
	Analyze(file io.Reader, filename string, in domain.AnalysisInput, cfg config.Pipeline) (*domain.StatementReport, error)
}

type service struct {
	logger *zap.Logger
}

// NewService creates a new statement analysis service.
func NewService(logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{logger: logger}
}

// Analyze runs one upload through load, resolve, normalize, allocate and aggregate.
// Document-level failures return no report. A budget alert that cannot be computed
// is reported inside the result instead.
func (s *service) Analyze(file io.Reader, filename string, in domain.AnalysisInput, cfg config.Pipeline) (*domain.StatementReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if in.AvailableBalance.IsNegative() {
		return nil, ErrNegativeBalance
	}

	runID := uuid.NewString()
	start := time.Now()
	log := s.logger.With(zap.String("run_id", runID), zap.String("filename", filename))

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &UnreadableDocumentError{Err: fmt.Errorf("failed to read upload: %w", err)}
	}

	grid, engine, err := LoadGrid(data, filename, LoadOptions{
		Engine:      cfg.Engine,
		SheetName:   cfg.SheetName,
		HeaderSkip:  cfg.HeaderSkip,
		ColumnRange: cfg.ColumnRange,
	})
	if err != nil {
		log.Warn("failed to load statement", zap.Error(err))
		return nil, err
	}

	var header []string
	dataRows := [][]string(grid)
	firstRow := cfg.HeaderSkip + 1
	if cfg.HasHeaderRow && len(grid) > 0 {
		header = grid[0]
		dataRows = grid[1:]
		firstRow++
	}

	if n := countNonBlank(dataRows); n < cfg.MinDataRows {
		err := &InsufficientRowsError{Actual: n, Expected: cfg.MinDataRows}
		log.Warn("statement has too few rows", zap.Error(err))
		return nil, err
	}

	columns, err := NewResolver(cfg).Resolve(header, gridWidth(header, dataRows))
	if err != nil {
		log.Warn("failed to resolve columns", zap.Error(err), zap.String("strategy", string(cfg.Strategy)))
		return nil, err
	}

	partials := extractRecords(dataRows, firstRow, columns, cfg.ChargeSign)
	records := make([]domain.TransactionRecord, 0, len(partials))
	for _, p := range partials {
		records = append(records, normalizeRecord(p))
	}

	summary := Aggregate(records, in.AvailableBalance, AggregateOptions{
		GroupMode: cfg.GroupMode,
		SortMode:  cfg.SortMode,
		TopN:      cfg.TopN,
	})

	report := &domain.StatementReport{
		RunID:      runID,
		Engine:     string(engine),
		Columns:    columns,
		Preview:    preview(dataRows),
		Records:    records,
		Summary:    summary,
		HasCredits: summary.CreditCount > 0,
		Alert:      evaluateBudget(summary, in.DayOfMonth, cfg.Alerts),
	}

	log.Info("statement analyzed",
		zap.String("engine", string(engine)),
		zap.Int("data_rows", len(dataRows)),
		zap.Int("records", len(records)),
		zap.Int("assumed_installments", summary.AssumedInstallments),
		zap.String("alert_tier", string(report.Alert.Tier)),
		zap.Duration("duration", time.Since(start)),
	)
	return report, nil
}

func normalizeRecord(p partialRecord) domain.TransactionRecord {
	inst := NormalizeInstallments(p.installmentsRaw)
	rec := domain.TransactionRecord{
		Row:                 p.row,
		DateRaw:             p.dateRaw,
		CardType:            p.cardType,
		Description:         p.description,
		City:                p.city,
		InstallmentsRaw:     p.installmentsRaw,
		InstallmentsCount:   inst.Count,
		AmountTotal:         p.amountTotal,
		AmountPeriod:        Allocate(p.amountTotal, inst.Count),
		InstallmentsAssumed: inst.Assumed,
		AssumedReason:       inst.Reason,
	}
	if t, ok := parseDate(p.dateRaw); ok {
		rec.Date = &t
	}
	return rec
}

func countNonBlank(rows [][]string) int {
	n := 0
	for _, row := range rows {
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				n++
				break
			}
		}
	}
	return n
}

func gridWidth(header []string, rows [][]string) int {
	width := len(header)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

func preview(rows [][]string) [][]string {
	out := make([][]string, 0, previewRows)
	for _, row := range rows {
		if len(out) == previewRows {
			break
		}
		out = append(out, row)
	}
	return out
}

// internal/api/handlers/statement_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/brunooviedo/estadodecuenta/internal/api/responses"
	"github.com/brunooviedo/estadodecuenta/internal/config"
	"github.com/brunooviedo/estadodecuenta/internal/core/statement"
	"github.com/brunooviedo/estadodecuenta/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// StatementHandler handles statement upload requests.
type StatementHandler struct {
	service  statement.Service
	defaults config.Pipeline
	now      func() time.Time
}

// NewStatementHandler creates a new statement handler using defaults for any parameter
// the request does not override.
func NewStatementHandler(service statement.Service, defaults config.Pipeline) *StatementHandler {
	return &StatementHandler{
		service:  service,
		defaults: defaults,
		now:      time.Now,
	}
}

// HandleAnalyze handles credit-card statement analysis requests.
func (h *StatementHandler) HandleAnalyze(c *gin.Context) {
	fileHeader, err := c.FormFile("statementFile")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Archivo de estado de cuenta (.xls, .xlsx, .csv) no encontrado o inválido")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xls" && ext != ".xlsx" && ext != ".csv" {
		responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Extensión de archivo no soportada: %s", ext))
		return
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(c.PostForm("availableBalance")))
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Saldo disponible ausente o inválido", err.Error())
		return
	}

	day := h.now().Day()
	if raw := strings.TrimSpace(c.PostForm("dayOfMonth")); raw != "" {
		day, err = strconv.Atoi(raw)
		if err != nil {
			responses.Error(c, http.StatusBadRequest, "Día del mes inválido", err.Error())
			return
		}
	}

	cfg, err := pipelineFromForm(c, h.defaults)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Parámetros de lectura inválidos", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "No se pudo abrir el archivo de estado de cuenta")
		return
	}
	defer file.Close()

	report, err := h.service.Analyze(file, fileHeader.Filename, domain.AnalysisInput{
		AvailableBalance: balance,
		DayOfMonth:       day,
	}, cfg)
	if err != nil {
		h.writeAnalyzeError(c, err)
		return
	}

	responses.Success(c, report, "Análisis del estado de cuenta completado")
}

func (h *StatementHandler) writeAnalyzeError(c *gin.Context, err error) {
	var hinter statement.Hinter
	switch {
	case statement.IsDocumentError(err) && errors.As(err, &hinter):
		responses.Error(c, http.StatusUnprocessableEntity, hinter.Hint(), err.Error())
	case errors.Is(err, statement.ErrInvalidConfig):
		responses.Error(c, http.StatusBadRequest, "Parámetros de lectura inválidos", err.Error())
	case errors.Is(err, statement.ErrNegativeBalance):
		responses.Error(c, http.StatusBadRequest, "El saldo disponible no puede ser negativo", err.Error())
	default:
		responses.Error(c, http.StatusInternalServerError, "Error al procesar el estado de cuenta", err.Error())
	}
}

// pipelineFromForm applies the optional form overrides on top of base.
func pipelineFromForm(c *gin.Context, base config.Pipeline) (config.Pipeline, error) {
	cfg := base

	intField := func(key string, dst *int) error {
		raw := strings.TrimSpace(c.PostForm(key))
		if raw == "" {
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}
	strField := func(key string) (string, bool) {
		raw := strings.TrimSpace(c.PostForm(key))
		return raw, raw != ""
	}

	if err := intField("headerSkip", &cfg.HeaderSkip); err != nil {
		return cfg, err
	}
	if err := intField("topN", &cfg.TopN); err != nil {
		return cfg, err
	}
	if v, ok := strField("columnRange"); ok {
		cfg.ColumnRange = v
	}
	if v, ok := strField("sheetName"); ok {
		cfg.SheetName = v
	}
	if v, ok := strField("engine"); ok {
		cfg.Engine = config.Engine(strings.ToLower(v))
	}
	if v, ok := strField("strategy"); ok {
		cfg.Strategy = config.Strategy(strings.ToLower(v))
	}
	if v, ok := strField("groupMode"); ok {
		cfg.GroupMode = domain.GroupMode(strings.ToLower(v))
	}
	if v, ok := strField("sortMode"); ok {
		cfg.SortMode = domain.SortMode(strings.ToLower(v))
	}
	if v, ok := strField("chargeSign"); ok {
		cfg.ChargeSign = config.ChargeSign(strings.ToLower(v))
	}
	if v, ok := strField("hasHeaderRow"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("hasHeaderRow: %w", err)
		}
		cfg.HasHeaderRow = b
	}

	return cfg, cfg.Validate()
}

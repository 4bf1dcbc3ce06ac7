package statement

import (
	"strings"

	"github.com/brunooviedo/estadodecuenta/internal/config"
	"github.com/brunooviedo/estadodecuenta/internal/domain"

	"github.com/schollz/closestmatch"
	"github.com/shopspring/decimal"
)

// ColumnMap maps each resolved field to a column index of the sliced grid.
type ColumnMap map[domain.Field]int

// ColumnResolver locates the semantic fields given the header row and the grid width.
type ColumnResolver interface {
	Resolve(header []string, width int) (ColumnMap, error)
}

var requiredFields = []domain.Field{domain.FieldDescription, domain.FieldAmount}

// NewResolver returns the resolver selected by cfg.
func NewResolver(cfg config.Pipeline) ColumnResolver {
	positional := PositionalResolver{Offsets: cfg.Offsets}
	if cfg.Strategy == config.StrategyNamed {
		return NamedResolver{Aliases: DefaultAliases(), Fallback: positional}
	}
	return positional
}

// PositionalResolver uses fixed offsets and ignores header text.
type PositionalResolver struct {
	Offsets config.Offsets
}

func (r PositionalResolver) Resolve(_ []string, width int) (ColumnMap, error) {
	cm := make(ColumnMap)
	for _, field := range domain.AllFields {
		if off := r.Offsets.Of(field); off >= 0 && off < width {
			cm[field] = off
		}
	}
	return cm, checkRequired(cm)
}

// DefaultAliases lists the header titles seen in bank exports, per field.
func DefaultAliases() map[domain.Field][]string {
	return map[domain.Field][]string{
		domain.FieldDate:         {"Fecha", "Fecha Operacion", "Fecha Compra", "Fecha Transaccion"},
		domain.FieldCardType:     {"Tipo Tarjeta", "Tarjeta", "Tipo de Tarjeta"},
		domain.FieldDescription:  {"Descripción", "Descripcion Operacion", "Detalle", "Comercio"},
		domain.FieldCity:         {"Ciudad", "Lugar de Operacion", "Localidad"},
		domain.FieldInstallments: {"Cuotas", "N Cuota", "Cuota", "Numero de Cuotas"},
		domain.FieldAmount:       {"Monto", "Monto Total", "Valor Cuota", "Monto Operacion", "Total a Pagar"},
	}
}

// NamedResolver matches header titles, falling back to fixed offsets for any field
// whose title is blank or unrecognizable.
type NamedResolver struct {
	Aliases  map[domain.Field][]string
	Fallback PositionalResolver
}

func (r NamedResolver) Resolve(header []string, width int) (ColumnMap, error) {
	normHeader := make([]string, len(header))
	for i, h := range header {
		normHeader[i] = normalizeText(h)
	}

	cm := make(ColumnMap)
	claimed := make(map[int]bool)
	claim := func(field domain.Field, idx int) {
		cm[field] = idx
		claimed[idx] = true
	}

	// exact titles win over partial and fuzzy matches
	for _, field := range domain.AllFields {
		if idx := findExact(normHeader, r.Aliases[field], claimed); idx >= 0 {
			claim(field, idx)
		}
	}
	for _, field := range domain.AllFields {
		if _, ok := cm[field]; ok {
			continue
		}
		if idx := findContains(normHeader, r.Aliases[field], claimed); idx >= 0 {
			claim(field, idx)
		}
	}
	for _, field := range domain.AllFields {
		if _, ok := cm[field]; ok {
			continue
		}
		if idx := findFuzzy(normHeader, r.Aliases[field], claimed); idx >= 0 {
			claim(field, idx)
		}
	}

	for _, field := range domain.AllFields {
		if _, ok := cm[field]; ok {
			continue
		}
		if off := r.Fallback.Offsets.Of(field); off >= 0 && off < width && !claimed[off] {
			claim(field, off)
		}
	}
	return cm, checkRequired(cm)
}

func findExact(normHeader []string, aliases []string, claimed map[int]bool) int {
	for _, alias := range aliases {
		na := normalizeText(alias)
		for idx, h := range normHeader {
			if !claimed[idx] && h != "" && h == na {
				return idx
			}
		}
	}
	return -1
}

func findContains(normHeader []string, aliases []string, claimed map[int]bool) int {
	for _, alias := range aliases {
		na := normalizeText(alias)
		for idx, h := range normHeader {
			if !claimed[idx] && h != "" && strings.Contains(h, na) {
				return idx
			}
		}
	}
	return -1
}

// findFuzzy tolerates typos and truncations like "DESCRIPCIN" or "CUOTS".
func findFuzzy(normHeader []string, aliases []string, claimed map[int]bool) int {
	var candidates []string
	byText := make(map[string]int)
	for idx, h := range normHeader {
		if claimed[idx] || len(h) < 4 {
			continue
		}
		if _, seen := byText[h]; !seen {
			byText[h] = idx
			candidates = append(candidates, h)
		}
	}
	if len(candidates) == 0 {
		return -1
	}

	// closestmatch indexes its keys lower-cased
	cm := closestmatch.New(candidates, []int{3, 4})
	for _, alias := range aliases {
		na := normalizeText(alias)
		if len(na) < 4 {
			continue
		}
		if match := cm.Closest(strings.ToLower(na)); match != "" && sharesPrefix(match, na, 4) {
			return byText[match]
		}
	}
	return -1
}

func sharesPrefix(a, b string, n int) bool {
	if len(a) < n || len(b) < n {
		return false
	}
	return a[:n] == b[:n]
}

func checkRequired(cm ColumnMap) error {
	for _, field := range requiredFields {
		if _, ok := cm[field]; !ok {
			return &MissingColumnError{Field: field}
		}
	}
	return nil
}

// partialRecord is a resolved row before installments and allocation are applied.
type partialRecord struct {
	row             int
	dateRaw         string
	cardType        string
	description     string
	city            string
	installmentsRaw string
	amountTotal     decimal.NullDecimal
}

// extractRecords reads the data rows through cm. firstRow is the 1-based sheet row of rows[0].
// Rows with neither description nor amount are skipped.
func extractRecords(rows [][]string, firstRow int, cm ColumnMap, sign config.ChargeSign) []partialRecord {
	cell := func(row []string, field domain.Field) string {
		idx, ok := cm[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	out := make([]partialRecord, 0, len(rows))
	for i, row := range rows {
		description := cell(row, domain.FieldDescription)
		amount, hasAmount := parseAmount(cell(row, domain.FieldAmount))
		if description == "" && !hasAmount {
			continue
		}
		if hasAmount && sign == config.ChargesNegative {
			amount.Decimal = amount.Decimal.Neg()
		}
		out = append(out, partialRecord{
			row:             firstRow + i,
			dateRaw:         cell(row, domain.FieldDate),
			cardType:        cell(row, domain.FieldCardType),
			description:     description,
			city:            cell(row, domain.FieldCity),
			installmentsRaw: cell(row, domain.FieldInstallments),
			amountTotal:     amount,
		})
	}
	return out
}

package statement

import (
	"errors"
	"testing"

	"github.com/brunooviedo/estadodecuenta/internal/config"
	"github.com/brunooviedo/estadodecuenta/internal/domain"
)

func TestPositionalResolver(t *testing.T) {
	r := PositionalResolver{Offsets: config.DefaultPipeline().Offsets}

	cm, err := r.Resolve(nil, 11)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := ColumnMap{
		domain.FieldDate:         0,
		domain.FieldCardType:     2,
		domain.FieldDescription:  4,
		domain.FieldCity:         5,
		domain.FieldInstallments: 7,
		domain.FieldAmount:       10,
	}
	for field, idx := range want {
		if cm[field] != idx {
			t.Errorf("%s -> %d, want %d", field, cm[field], idx)
		}
	}
}

func TestPositionalResolver_NarrowGrid(t *testing.T) {
	r := PositionalResolver{Offsets: config.DefaultPipeline().Offsets}

	_, err := r.Resolve(nil, 8)
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("Resolve() error = %v, want MissingColumnError", err)
	}
	if missing.Field != domain.FieldAmount {
		t.Errorf("missing field = %s, want Amount", missing.Field)
	}
}

func TestNamedResolver(t *testing.T) {
	r := NamedResolver{Aliases: DefaultAliases(), Fallback: PositionalResolver{Offsets: config.DefaultPipeline().Offsets}}

	tests := []struct {
		name   string
		header []string
		width  int
		want   ColumnMap
	}{
		{
			name:   "all titles present in a different order",
			header: []string{"Monto", "Cuotas", "Descripción", "Fecha", "Ciudad", "Tipo Tarjeta"},
			width:  6,
			want: ColumnMap{
				domain.FieldAmount:       0,
				domain.FieldInstallments: 1,
				domain.FieldDescription:  2,
				domain.FieldDate:         3,
				domain.FieldCity:         4,
				domain.FieldCardType:     5,
			},
		},
		{
			name:   "blank amount title falls back to its offset",
			header: []string{"Fecha", "", "Tipo Tarjeta", "", "Descripción", "Ciudad", "", "Cuotas", "", "", ""},
			width:  11,
			want: ColumnMap{
				domain.FieldDate:         0,
				domain.FieldCardType:     2,
				domain.FieldDescription:  4,
				domain.FieldCity:         5,
				domain.FieldInstallments: 7,
				domain.FieldAmount:       10,
			},
		},
		{
			name:   "drifted titles",
			header: []string{"FECHA OPERACION", "DESCRIPCIN", "N° CUOTA", "MONTO TOTAL $"},
			width:  4,
			want: ColumnMap{
				domain.FieldDate:         0,
				domain.FieldDescription:  1,
				domain.FieldInstallments: 2,
				domain.FieldAmount:       3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm, err := r.Resolve(tt.header, tt.width)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			for field, idx := range tt.want {
				got, ok := cm[field]
				if !ok || got != idx {
					t.Errorf("%s -> %d (found %v), want %d", field, got, ok, idx)
				}
			}
		})
	}
}

func TestNamedResolver_Typos(t *testing.T) {
	r := NamedResolver{Aliases: DefaultAliases(), Fallback: PositionalResolver{Offsets: config.Offsets{Date: -1, CardType: -1, Description: -1, City: -1, Installments: -1, Amount: -1}}}

	cm, err := r.Resolve([]string{"Descripcon", "Cuots", "Montos Totales"}, 3)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cm[domain.FieldDescription] != 0 || cm[domain.FieldAmount] != 2 {
		t.Errorf("got %v, want Description 0 and Amount 2", cm)
	}
	if idx, ok := cm[domain.FieldInstallments]; !ok || idx != 1 {
		t.Errorf("Installments -> %d (found %v), want 1", idx, ok)
	}
}

func TestNamedResolver_MissingDescription(t *testing.T) {
	r := NamedResolver{Aliases: DefaultAliases(), Fallback: PositionalResolver{Offsets: config.Offsets{Description: 9, Amount: 1, Date: -1, CardType: -1, City: -1, Installments: -1}}}

	_, err := r.Resolve([]string{"Fecha", "Monto"}, 2)
	var missing *MissingColumnError
	if !errors.As(err, &missing) || missing.Field != domain.FieldDescription {
		t.Fatalf("Resolve() error = %v, want MissingColumnError for Description", err)
	}
}

func TestExtractRecords(t *testing.T) {
	cm := ColumnMap{domain.FieldDescription: 0, domain.FieldAmount: 1, domain.FieldInstallments: 2}
	rows := [][]string{
		{"SUPERMERCADO", "1000", "01/02"},
		{"", "", ""},
		{},
		{"SIN MONTO", ""},
		{"", "-50"},
	}

	got := extractRecords(rows, 20, cm, config.ChargesPositive)
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	if got[0].row != 20 || got[1].row != 23 || got[2].row != 24 {
		t.Errorf("rows = %d,%d,%d, want 20,23,24", got[0].row, got[1].row, got[2].row)
	}
	if got[1].amountTotal.Valid {
		t.Errorf("blank amount should be null, got %v", got[1].amountTotal)
	}

	negated := extractRecords(rows, 20, cm, config.ChargesNegative)
	if !negated[0].amountTotal.Decimal.IsNegative() || !negated[2].amountTotal.Decimal.IsPositive() {
		t.Errorf("negative charge sign should flip amounts, got %s and %s", negated[0].amountTotal.Decimal, negated[2].amountTotal.Decimal)
	}
}

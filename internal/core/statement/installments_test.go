package statement

import (
	"strconv"
	"testing"

	"github.com/brunooviedo/estadodecuenta/internal/domain"

	"github.com/shopspring/decimal"
)

func TestNormalizeInstallments(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		wantCount   int
		wantAssumed bool
		wantReason  string
	}{
		{name: "current over total", token: "01/03", wantCount: 3},
		{name: "last installment", token: "12/12", wantCount: 12},
		{name: "spaces around separator", token: " 2 / 6 ", wantCount: 6},
		{name: "plain integer", token: "4", wantCount: 4},
		{name: "integer valued float", token: "3.0", wantCount: 3},
		{name: "single", token: "1", wantCount: 1},
		{name: "empty", token: "", wantCount: 1, wantAssumed: true, wantReason: domain.InstallmentsAbsent},
		{name: "whitespace only", token: "   ", wantCount: 1, wantAssumed: true, wantReason: domain.InstallmentsAbsent},
		{name: "zero", token: "0", wantCount: 1, wantAssumed: true, wantReason: domain.InstallmentsMalformed},
		{name: "negative", token: "-2", wantCount: 1, wantAssumed: true, wantReason: domain.InstallmentsMalformed},
		{name: "fractional", token: "2.5", wantCount: 1, wantAssumed: true, wantReason: domain.InstallmentsMalformed},
		{name: "zero total", token: "01/00", wantCount: 1, wantAssumed: true, wantReason: domain.InstallmentsMalformed},
		{name: "negative total", token: "01/-3", wantCount: 1, wantAssumed: true, wantReason: domain.InstallmentsMalformed},
		{name: "missing total", token: "01/", wantCount: 1, wantAssumed: true, wantReason: domain.InstallmentsMalformed},
		{name: "text", token: "sin cuotas", wantCount: 1, wantAssumed: true, wantReason: domain.InstallmentsMalformed},
		{name: "date like", token: "01/03/2024", wantCount: 1, wantAssumed: true, wantReason: domain.InstallmentsMalformed},
		{name: "letters after separator", token: "01/xx", wantCount: 1, wantAssumed: true, wantReason: domain.InstallmentsMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeInstallments(tt.token)
			if got.Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", got.Count, tt.wantCount)
			}
			if got.Assumed != tt.wantAssumed {
				t.Errorf("Assumed = %v, want %v", got.Assumed, tt.wantAssumed)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestNormalizeInstallments_TotalAfterSeparator(t *testing.T) {
	for total := 1; total <= 48; total++ {
		for current := 1; current <= total; current += 7 {
			token := strconv.Itoa(current) + "/" + strconv.Itoa(total)
			if got := NormalizeInstallments(token); got.Count != total || got.Assumed {
				t.Fatalf("NormalizeInstallments(%q) = %+v, want Count %d", token, got, total)
			}
		}
	}
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name  string
		total decimal.NullDecimal
		count int
		want  decimal.Decimal
	}{
		{name: "three installments", total: decimal.NewNullDecimal(decimal.NewFromInt(90000)), count: 3, want: decimal.NewFromInt(30000)},
		{name: "single", total: decimal.NewNullDecimal(decimal.NewFromInt(-15000)), count: 1, want: decimal.NewFromInt(-15000)},
		{name: "null amount", total: decimal.NullDecimal{}, count: 3, want: decimal.Zero},
		{name: "zero count", total: decimal.NewNullDecimal(decimal.NewFromInt(500)), count: 0, want: decimal.Zero},
		{name: "non terminating", total: decimal.NewNullDecimal(decimal.NewFromInt(100)), count: 3, want: decimal.NewFromInt(100).Div(decimal.NewFromInt(3))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allocate(tt.total, tt.count); !got.Equal(tt.want) {
				t.Errorf("Allocate() = %s, want %s", got, tt.want)
			}
		})
	}
}

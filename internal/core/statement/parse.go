package statement

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
var whitespaceRegex = regexp.MustCompile(`\s+`)

// normalizeText folds accents, upper-cases and collapses punctuation to single spaces.
func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, str)
	result = strings.ToUpper(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

var thousandsOnlyRegex = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// parseAmount reads a money cell. Raw numeric cells parse directly; text cells go
// through the separator heuristics ("$ 1.234,50", "(90.000)", "-15000").
func parseAmount(val string) (decimal.NullDecimal, bool) {
	s := strings.TrimSpace(val)
	if s == "" {
		return decimal.NullDecimal{}, false
	}
	if d, err := decimal.NewFromString(s); err == nil && !thousandsOnlyRegex.MatchString(strings.TrimLeft(s, "+-")) {
		return decimal.NewNullDecimal(d), true
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "CLP", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimPrefix(strings.TrimSuffix(s, ")"), "(")
	}
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimPrefix(s, "-")
	}
	if strings.HasSuffix(s, "-") {
		neg = true
		s = strings.TrimSuffix(s, "-")
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case lastDot > lastComma:
		s = strings.ReplaceAll(s, ",", "")
		if thousandsOnlyRegex.MatchString(s) {
			s = strings.ReplaceAll(s, ".", "")
		} else if strings.Count(s, ".") > 1 {
			parts := strings.Split(s, ".")
			s = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
		}
	}

	filtered := make([]rune, 0, len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return decimal.NullDecimal{}, false
	}

	d, err := decimal.NewFromString(string(filtered))
	if err != nil {
		return decimal.NullDecimal{}, false
	}
	if neg {
		d = d.Neg()
	}
	return decimal.NewNullDecimal(d), true
}

// Excel serials between these bounds are read as dates (roughly 1995 to 2028).
const (
	minDateSerial = 35000
	maxDateSerial = 47000
)

var dateLayouts = []string{"02/01/2006", "2/1/2006", "02-01-2006", "02/01/06", "2006-01-02"}

// parseDate reads a day-first date, an ISO date or an Excel serial.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if len(s) > 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f > minDateSerial && f < maxDateSerial {
			return excelSerialToDate(f), true
		}
	}
	return time.Time{}, false
}

func excelSerialToDate(serial float64) time.Time {
	// base Excel serial -> 1899-12-30
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	days := int64(serial)
	frac := serial - float64(days)
	return base.AddDate(0, 0, int(days)).Add(time.Duration(frac * 24 * float64(time.Hour)))
}

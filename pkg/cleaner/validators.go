// pkg/cleaner/validators.go
package cleaner

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/retailetl/sanitize/pkg/table"
)

var (
	// Digits, decimal point and minus sign only
	reNumericChars = regexp.MustCompile(`^[0-9.\-]+$`)
	reNonDigit     = regexp.MustCompile(`[^0-9]`)
	// Parentheses, X's and plus signs may encode area-code, extension or
	// country-code semantics and must survive phone cleaning
	rePhoneStrip = regexp.MustCompile(`[^0-9()Xx+]`)
	// Consecutive runs of "@" only; separated "@" signs stay and fail
	// validation downstream
	reAtRun = regexp.MustCompile(`@{2,}`)
	reEmail = regexp.MustCompile(`^[^@]+@[^@]+\.[^@.]+$`)
)

// applyToColumns runs a total cell function over the named columns,
// mutating cells in place. Columns missing from the table are skipped;
// the caller tolerates incomplete extracts.
func applyToColumns(t *table.Table, columns []string, fn func(table.Value) table.Value) (*table.Table, error) {
	for _, name := range columns {
		if !t.HasColumn(name) {
			continue
		}
		cells := t.Column(name)
		for i, cell := range cells {
			cells[i] = fn(cell)
		}
	}
	return t, nil
}

// standardizeNulls rewrites the sentinel strings "NULL" and "N/A"
// (exact, case-sensitive) to the absent-value marker across all columns.
// Runs before any validator so no later stage sees a source null literal.
func standardizeNulls(t *table.Table) (*table.Table, error) {
	return applyToColumns(t, t.Columns(), func(v table.Value) table.Value {
		if v.Kind() != table.KindText {
			return v
		}
		if s := v.String(); s == "NULL" || s == "N/A" {
			return table.Absent()
		}
		return v
	})
}

// cleanAlphaCell invalidates text containing numerals. Name, locality and
// type fields are never expected to contain digits; a digit indicates
// corrupted source data.
func cleanAlphaCell(v table.Value) table.Value {
	if v.Kind() != table.KindText {
		return v
	}
	if strings.ContainsAny(v.String(), "0123456789") {
		return table.Absent()
	}
	return v
}

// cleanNumericCell validates a numeric cell and parses it to a float.
// A non-empty currency token is stripped as an optional prefix before
// validation, so re-running the validator on parsed output is a no-op.
func cleanNumericCell(v table.Value, currency string) table.Value {
	switch v.Kind() {
	case table.KindAbsent, table.KindFloat, table.KindInt:
		return v
	case table.KindText:
		s := strings.TrimSpace(v.String())
		if currency != "" && strings.HasPrefix(s, currency) {
			s = strings.TrimSpace(strings.TrimPrefix(s, currency))
		}
		if !reNumericChars.MatchString(s) {
			return table.Absent()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// Passed the character check but is not a number, e.g. "12.5.3"
			return table.Absent()
		}
		return table.Float(f)
	default:
		return table.Absent()
	}
}

// cleanCategoryCell trims and tests membership in a closed allow-list.
// Matching is case-sensitive; pipelines normalize case upstream where the
// domain requires it.
func cleanCategoryCell(v table.Value, allowed map[string]struct{}) table.Value {
	if v.IsAbsent() {
		return v
	}
	if v.Kind() != table.KindText {
		return table.Absent()
	}
	s := strings.TrimSpace(v.String())
	if _, ok := allowed[s]; !ok {
		return table.Absent()
	}
	return table.Text(s)
}

// parseDateCell parses a date cell against the given layouts. Unparseable
// cells become absent; when future dates are disallowed, parsed dates after
// now become absent as well. Already-parsed cells only re-check the future
// bound.
func parseDateCell(v table.Value, layouts []string, futureDatesValid bool, now time.Time) table.Value {
	switch v.Kind() {
	case table.KindAbsent:
		return v
	case table.KindTime:
		if t, _ := v.Time(); !futureDatesValid && t.After(now) {
			return table.Absent()
		}
		return v
	case table.KindText:
		s := strings.TrimSpace(v.String())
		for _, layout := range layouts {
			t, err := time.Parse(layout, s)
			if err != nil {
				continue
			}
			if !futureDatesValid && t.After(now) {
				return table.Absent()
			}
			return table.Time(t)
		}
		return table.Absent()
	default:
		return table.Absent()
	}
}

// inferenceLayouts returns the best-effort layouts tried when a column has
// no fixed known format. Ambiguous numeric layouts follow the configured
// day-first locale.
func inferenceLayouts(dayFirst bool) []string {
	layouts := []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		time.RFC3339,
		"2006/01/02",
		"2006 January 02",
		"January 2006 02",
		"02 January 2006",
		"January 02, 2006",
	}
	if dayFirst {
		return append(layouts, "02/01/2006", "02-01-2006")
	}
	return append(layouts, "01/02/2006", "01-02-2006")
}

// cleanPhoneCell strips everything except digits, parentheses, X's and plus
// signs, then requires at least 7 remaining digits. Aggressive stripping
// risks corrupting inconsistently formatted international numbers, so only
// the digit count is enforced.
func cleanPhoneCell(v table.Value) table.Value {
	if v.IsAbsent() {
		return v
	}
	if v.Kind() != table.KindText {
		return table.Absent()
	}
	stripped := rePhoneStrip.ReplaceAllString(v.String(), "")
	if len(reNonDigit.ReplaceAllString(stripped, "")) < 7 {
		return table.Absent()
	}
	return table.Text(stripped)
}

// cleanEmailCell collapses consecutive "@" runs to a single "@" and then
// requires the shape local@domain.label with exactly one "@".
func cleanEmailCell(v table.Value) table.Value {
	if v.IsAbsent() {
		return v
	}
	if v.Kind() != table.KindText {
		return table.Absent()
	}
	s := strings.TrimSpace(v.String())
	s = reAtRun.ReplaceAllString(s, "@")
	if !reEmail.MatchString(s) {
		return table.Absent()
	}
	return table.Text(s)
}

// cleanCardCell keeps only digits and requires at least 8 of them, the
// minimum realistic length for a payment card number.
func cleanCardCell(v table.Value) table.Value {
	switch v.Kind() {
	case table.KindAbsent:
		return v
	case table.KindText, table.KindInt, table.KindFloat:
		digits := reNonDigit.ReplaceAllString(v.String(), "")
		if len(digits) < 8 {
			return table.Absent()
		}
		return table.Text(digits)
	default:
		return table.Absent()
	}
}

// cleanUUIDCell canonicalizes UUID-shaped text; malformed values become
// absent
func cleanUUIDCell(v table.Value) table.Value {
	if v.IsAbsent() {
		return v
	}
	if v.Kind() != table.KindText {
		return table.Absent()
	}
	u, err := uuid.Parse(strings.TrimSpace(v.String()))
	if err != nil {
		return table.Absent()
	}
	return table.Text(u.String())
}

// validateTimestampCell checks that a cell parses as HH:MM:SS but keeps the
// original text. Converting to a time value would collapse the date
// component to an arbitrary epoch date.
func validateTimestampCell(v table.Value) table.Value {
	if v.IsAbsent() {
		return v
	}
	if v.Kind() != table.KindText {
		return table.Absent()
	}
	if _, err := time.Parse("15:04:05", strings.TrimSpace(v.String())); err != nil {
		return table.Absent()
	}
	return v
}

// newCategorySet builds the membership set for a category allow-list
func newCategorySet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

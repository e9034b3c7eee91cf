// pkg/cleaner/filters.go
package cleaner

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/retailetl/sanitize/pkg/table"
)

// ErrMissingColumn reports a structural mismatch between the engine and its
// caller: a column a pipeline strictly depends on is not in the input table.
// Per-cell invalidity is never an error; a missing required column is,
// because the upstream extraction needs fixing.
var ErrMissingColumn = errors.New("required column missing from input table")

// Exploratory analysis of the source extracts shows these columns are
// artifacts of the extraction (positional indexes), not data
var unwantedColumns = []string{"index", "Unnamed: 0", "level_0", "1"}

// dropUnwantedColumns prunes extraction-artifact columns
func dropUnwantedColumns(t *table.Table) (*table.Table, error) {
	for _, name := range unwantedColumns {
		t.DropColumn(name)
	}
	return t, nil
}

// dropMostlyNullColumn drops the named column when more than the given
// fraction of its cells are absent. Used for source columns duplicated
// under a second name and left unpopulated.
func dropMostlyNullColumn(t *table.Table, name string, threshold float64) (*table.Table, error) {
	if !t.HasColumn(name) || t.NumRows() == 0 {
		return t, nil
	}
	absent := 0
	for _, cell := range t.Column(name) {
		if cell.IsAbsent() {
			absent++
		}
	}
	if float64(absent)/float64(t.NumRows()) > threshold {
		t.DropColumn(name)
	}
	return t, nil
}

// replaceInColumn rewrites cells exactly matching from with to.
// Used for known source typos, e.g. the "GGB" country code.
func replaceInColumn(t *table.Table, name, from, to string) (*table.Table, error) {
	return applyToColumns(t, []string{name}, func(v table.Value) table.Value {
		if v.Kind() == table.KindText && v.String() == from {
			return table.Text(to)
		}
		return v
	})
}

// stripColumnPrefix removes a leading prefix from text cells in the column
func stripColumnPrefix(t *table.Table, name, prefix string) (*table.Table, error) {
	return applyToColumns(t, []string{name}, func(v table.Value) table.Value {
		if v.Kind() == table.KindText {
			return table.Text(strings.TrimPrefix(v.String(), prefix))
		}
		return v
	})
}

// capitalizeColumn upper-cases the first rune and lower-cases the rest of
// each text cell in the column
func capitalizeColumn(t *table.Table, name string) (*table.Table, error) {
	return applyToColumns(t, []string{name}, func(v table.Value) table.Value {
		if v.Kind() != table.KindText {
			return v
		}
		s := v.String()
		if s == "" {
			return v
		}
		runes := []rune(strings.ToLower(s))
		runes[0] = unicode.ToUpper(runes[0])
		return table.Text(string(runes))
	})
}

// dropIncompleteRows drops every row holding the absent-value marker in any
// of the required columns. A required column missing from the table entirely
// is treated as all-absent, dropping every row, and is additionally reported
// to the caller as a contract mismatch.
func dropIncompleteRows(t *table.Table, required []string) (*table.Table, error) {
	var missing []string
	for _, name := range required {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		t.KeepRows(func(int) bool { return false })
		return t, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	t.KeepRows(func(row int) bool {
		for _, name := range required {
			if cell, ok := t.Cell(name, row); !ok || cell.IsAbsent() {
				return false
			}
		}
		return true
	})
	return t, nil
}

// dropIncompleteColumns drops every column containing at least one absent
// cell. The order pipeline uses this: a column that failed to parse at all
// is an artifact, but no individual order row is discarded.
func dropIncompleteColumns(t *table.Table) (*table.Table, error) {
	for _, name := range t.Columns() {
		for _, cell := range t.Column(name) {
			if cell.IsAbsent() {
				t.DropColumn(name)
				break
			}
		}
	}
	return t, nil
}

// castColumnsToInt converts float cells to integer cells. Applied after
// completeness filtering to columns that held floats only because absent
// markers were interleaved during cleaning.
func castColumnsToInt(t *table.Table, columns []string) (*table.Table, error) {
	return applyToColumns(t, columns, func(v table.Value) table.Value {
		if f, ok := v.Float(); ok {
			return table.Int(int64(f))
		}
		return v
	})
}

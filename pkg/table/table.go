// pkg/table/table.go
package table

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies the variant held by a Value
type Kind int

const (
	// KindAbsent marks a cell with no usable data; the universal null
	// used after cleaning, distinct from any source null literal
	KindAbsent Kind = iota
	KindText
	KindFloat
	KindInt
	KindBool
	KindTime
)

// String returns a string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindText:
		return "text"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Value is a tagged-variant table cell. The zero Value is absent.
type Value struct {
	kind Kind
	s    string
	f    float64
	i    int64
	b    bool
	t    time.Time
}

// Absent returns the absent-value marker
func Absent() Value {
	return Value{}
}

// Text returns a text-valued cell
func Text(s string) Value {
	return Value{kind: KindText, s: s}
}

// Float returns a float-valued cell
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// Int returns an integer-valued cell
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Bool returns a boolean-valued cell
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Time returns a time-valued cell
func Time(t time.Time) Value {
	return Value{kind: KindTime, t: t}
}

// Kind returns the variant held by the cell
func (v Value) Kind() Kind {
	return v.kind
}

// IsAbsent reports whether the cell holds the absent-value marker
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// String renders the canonical text form of the cell.
// Absent cells render as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.s
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// Float returns the float value; ok is false if the cell is not a float
func (v Value) Float() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// Int returns the integer value; ok is false if the cell is not an int
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInt
}

// Bool returns the boolean value; ok is false if the cell is not a bool
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Time returns the time value; ok is false if the cell is not a time
func (v Value) Time() (time.Time, bool) {
	return v.t, v.kind == KindTime
}

// Equal reports whether two cells hold the same kind and value
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindAbsent:
		return true
	case KindText:
		return v.s == o.s
	case KindFloat:
		return v.f == o.f
	case KindInt:
		return v.i == o.i
	case KindBool:
		return v.b == o.b
	case KindTime:
		return v.t.Equal(o.t)
	default:
		return false
	}
}

// Table is an ordered sequence of named columns, each an ordered sequence
// of cells aligned by row index. Columns keep their declaration order.
type Table struct {
	names []string
	cols  map[string][]Value
}

// New creates an empty table with the given columns
func New(columns ...string) *Table {
	t := &Table{
		names: make([]string, 0, len(columns)),
		cols:  make(map[string][]Value, len(columns)),
	}
	for _, name := range columns {
		if _, exists := t.cols[name]; exists {
			continue
		}
		t.names = append(t.names, name)
		t.cols[name] = nil
	}
	return t
}

// Columns returns the column names in declaration order
func (t *Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// NumCols returns the number of columns
func (t *Table) NumCols() int {
	return len(t.names)
}

// NumRows returns the number of rows
func (t *Table) NumRows() int {
	if len(t.names) == 0 {
		return 0
	}
	return len(t.cols[t.names[0]])
}

// HasColumn reports whether the named column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Column returns the cells of the named column. The returned slice is the
// table's backing storage; callers may mutate cells in place.
func (t *Table) Column(name string) []Value {
	return t.cols[name]
}

// Cell returns the cell at the given column and row
func (t *Table) Cell(name string, row int) (Value, bool) {
	col, ok := t.cols[name]
	if !ok || row < 0 || row >= len(col) {
		return Value{}, false
	}
	return col[row], true
}

// Set replaces the cell at the given column and row
func (t *Table) Set(name string, row int, v Value) {
	col, ok := t.cols[name]
	if !ok || row < 0 || row >= len(col) {
		return
	}
	col[row] = v
}

// AppendRow appends one row; columns missing from cells receive the
// absent-value marker, and unknown keys are ignored
func (t *Table) AppendRow(cells map[string]Value) {
	for _, name := range t.names {
		t.cols[name] = append(t.cols[name], cells[name])
	}
}

// Row returns the cells of one row keyed by column name
func (t *Table) Row(i int) map[string]Value {
	row := make(map[string]Value, len(t.names))
	for _, name := range t.names {
		if v, ok := t.Cell(name, i); ok {
			row[name] = v
		}
	}
	return row
}

// DropColumn removes the named column if present
func (t *Table) DropColumn(name string) {
	if _, ok := t.cols[name]; !ok {
		return
	}
	delete(t.cols, name)
	for i, n := range t.names {
		if n == name {
			t.names = append(t.names[:i], t.names[i+1:]...)
			break
		}
	}
}

// KeepRows retains only the rows for which keep returns true,
// compacting all columns in place
func (t *Table) KeepRows(keep func(row int) bool) {
	n := t.NumRows()
	kept := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if keep(i) {
			kept = append(kept, i)
		}
	}
	if len(kept) == n {
		return
	}
	for _, name := range t.names {
		col := t.cols[name]
		out := col[:0]
		for _, i := range kept {
			out = append(out, col[i])
		}
		t.cols[name] = out
	}
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	c := New(t.names...)
	for _, name := range t.names {
		col := t.cols[name]
		cells := make([]Value, len(col))
		copy(cells, col)
		c.cols[name] = cells
	}
	return c
}

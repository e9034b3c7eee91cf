// pkg/sink/postgres_test.go
package sink

import (
	"testing"
	"time"

	"github.com/retailetl/sanitize/pkg/table"
)

func TestInsertStatement(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		columns []string
		rows    int
		want    string
	}{
		{
			"single row",
			"dim_users",
			[]string{"first_name", "last_name"},
			1,
			`INSERT INTO "dim_users" ("first_name", "last_name") VALUES ($1, $2)`,
		},
		{
			"multiple rows",
			"dim_products",
			[]string{"weight"},
			3,
			`INSERT INTO "dim_products" ("weight") VALUES ($1), ($2), ($3)`,
		},
		{
			"identifiers are quoted",
			"odd table",
			[]string{"Unnamed: 0"},
			1,
			`INSERT INTO "odd table" ("Unnamed: 0") VALUES ($1)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := insertStatement(tt.target, tt.columns, tt.rows); got != tt.want {
				t.Errorf("insertStatement() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBindValue(t *testing.T) {
	ts := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input table.Value
		want  interface{}
	}{
		{"absent becomes NULL", table.Absent(), nil},
		{"text", table.Text("GB"), "GB"},
		{"float", table.Float(12.5), 12.5},
		{"int", table.Int(7), int64(7)},
		{"bool", table.Bool(true), true},
		{"time", table.Time(ts), ts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bindValue(tt.input); got != tt.want {
				t.Errorf("bindValue(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// pkg/cleaner/validators_test.go
package cleaner

import (
	"math"
	"testing"
	"time"

	"github.com/retailetl/sanitize/pkg/table"
)

func TestCleanAlphaCell(t *testing.T) {
	tests := []struct {
		name  string
		input table.Value
		want  table.Value
	}{
		{"plain name passes unchanged", table.Text("Smith"), table.Text("Smith")},
		{"accented name passes", table.Text("Müller"), table.Text("Müller")},
		{"digit anywhere invalidates", table.Text("Sm1th"), table.Absent()},
		{"trailing digit invalidates", table.Text("Smith2"), table.Absent()},
		{"all digits invalidates", table.Text("12345"), table.Absent()},
		{"absent passes through", table.Absent(), table.Absent()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanAlphaCell(tt.input); !got.Equal(tt.want) {
				t.Errorf("cleanAlphaCell(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanNumericCell(t *testing.T) {
	tests := []struct {
		name     string
		input    table.Value
		currency string
		want     table.Value
	}{
		{"simple decimal", table.Text("12.5"), "", table.Float(12.5)},
		{"negative integer", table.Text("-3"), "", table.Float(-3)},
		{"surrounding whitespace tolerated", table.Text("  7.25  "), "", table.Float(7.25)},
		{"double decimal point invalid", table.Text("12.5.3"), "", table.Absent()},
		{"letters invalid", table.Text("12a"), "", table.Absent()},
		{"currency prefix stripped", table.Text("£12.50"), "£", table.Float(12.5)},
		{"currency with space stripped", table.Text("£ 12.50"), "£", table.Float(12.5)},
		{"currency token optional", table.Text("12.50"), "£", table.Float(12.5)},
		{"wrong symbol still invalid", table.Text("$12.50"), "£", table.Absent()},
		{"already parsed float passes", table.Float(9.5), "", table.Float(9.5)},
		{"already parsed int passes", table.Int(9), "", table.Int(9)},
		{"absent passes through", table.Absent(), "", table.Absent()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanNumericCell(tt.input, tt.currency); !got.Equal(tt.want) {
				t.Errorf("cleanNumericCell(%v, %q) = %v, want %v", tt.input, tt.currency, got, tt.want)
			}
		})
	}
}

func TestCleanCategoryCell(t *testing.T) {
	allowed := newCategorySet([]string{"DE", "GB", "US"})

	tests := []struct {
		name  string
		input table.Value
		want  table.Value
	}{
		{"member passes", table.Text("GB"), table.Text("GB")},
		{"whitespace trimmed before membership", table.Text("  GB "), table.Text("GB")},
		{"case-sensitive by default", table.Text("  gb "), table.Absent()},
		{"non-member rejected", table.Text("FR"), table.Absent()},
		{"absent passes through", table.Absent(), table.Absent()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanCategoryCell(tt.input, allowed); !got.Equal(tt.want) {
				t.Errorf("cleanCategoryCell(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDateCell(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	layouts := inferenceLayouts(true)

	tests := []struct {
		name             string
		input            table.Value
		layouts          []string
		futureDatesValid bool
		want             table.Value
	}{
		{
			"iso date parses",
			table.Text("1990-05-05"), layouts, false,
			table.Time(time.Date(1990, 5, 5, 0, 0, 0, 0, time.UTC)),
		},
		{
			"future date rejected when disallowed",
			table.Text("2025-01-01"), layouts, false,
			table.Absent(),
		},
		{
			"future date kept when allowed",
			table.Text("2025-01-01"), layouts, true,
			table.Time(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		},
		{
			"verbose layout parses",
			table.Text("1968 October 16"), layouts, false,
			table.Time(time.Date(1968, 10, 16, 0, 0, 0, 0, time.UTC)),
		},
		{
			"day-first slash layout",
			table.Text("14/10/2013"), layouts, false,
			table.Time(time.Date(2013, 10, 14, 0, 0, 0, 0, time.UTC)),
		},
		{
			"explicit expiry layout",
			table.Text("03/26"), []string{"01/06"}, true,
			table.Time(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		},
		{
			"garbage rejected",
			table.Text("NOT A DATE"), layouts, true,
			table.Absent(),
		},
		{
			"parsed time passes future check",
			table.Time(time.Date(1990, 5, 5, 0, 0, 0, 0, time.UTC)), layouts, false,
			table.Time(time.Date(1990, 5, 5, 0, 0, 0, 0, time.UTC)),
		},
		{
			"parsed future time re-rejected",
			table.Time(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)), layouts, false,
			table.Absent(),
		},
		{"absent passes through", table.Absent(), layouts, false, table.Absent()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDateCell(tt.input, tt.layouts, tt.futureDatesValid, now)
			if !got.Equal(tt.want) {
				t.Errorf("parseDateCell(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanPhoneCell(t *testing.T) {
	tests := []struct {
		name  string
		input table.Value
		want  table.Value
	}{
		{"uk landline keeps structure", table.Text("(020) 7946 0958"), table.Text("(020)79460958")},
		{"country code plus sign kept", table.Text("+49 30 901820"), table.Text("+4930901820")},
		{"extension marker kept", table.Text("555-1234 x567"), table.Text("5551234x567")},
		{"six digits too short", table.Text("123456"), table.Absent()},
		{"letters stripped before count", table.Text("CALL-ME-NOW"), table.Absent()},
		{"absent passes through", table.Absent(), table.Absent()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanPhoneCell(tt.input); !got.Equal(tt.want) {
				t.Errorf("cleanPhoneCell(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanEmailCell(t *testing.T) {
	tests := []struct {
		name  string
		input table.Value
		want  table.Value
	}{
		{"plain address valid", table.Text("a@b.com"), table.Text("a@b.com")},
		{"consecutive at-signs collapsed", table.Text("a@@b.com"), table.Text("a@b.com")},
		{"triple at-run collapsed", table.Text("a@@@b.com"), table.Text("a@b.com")},
		{"separated at-signs stay invalid", table.Text("a@b@c.com"), table.Absent()},
		{"missing dot after domain invalid", table.Text("a@bcom"), table.Absent()},
		{"whitespace trimmed", table.Text("  a@b.com  "), table.Text("a@b.com")},
		{"absent passes through", table.Absent(), table.Absent()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanEmailCell(tt.input); !got.Equal(tt.want) {
				t.Errorf("cleanEmailCell(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanCardCell(t *testing.T) {
	tests := []struct {
		name  string
		input table.Value
		want  table.Value
	}{
		{"hyphenated eight digits valid", table.Text("4111-1111"), table.Text("41111111")},
		{"spaced six digits too short", table.Text("411 111"), table.Absent()},
		{"full pan stripped to digits", table.Text("4111 1111 1111 1111"), table.Text("4111111111111111")},
		{"already digits passes", table.Text("41111111"), table.Text("41111111")},
		{"absent passes through", table.Absent(), table.Absent()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanCardCell(tt.input); !got.Equal(tt.want) {
				t.Errorf("cleanCardCell(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanUUIDCell(t *testing.T) {
	tests := []struct {
		name  string
		input table.Value
		want  table.Value
	}{
		{
			"canonical uuid passes",
			table.Text("4b8f7a2e-1c3d-4e5f-8a9b-0c1d2e3f4a5b"),
			table.Text("4b8f7a2e-1c3d-4e5f-8a9b-0c1d2e3f4a5b"),
		},
		{
			"uppercase canonicalized",
			table.Text("4B8F7A2E-1C3D-4E5F-8A9B-0C1D2E3F4A5B"),
			table.Text("4b8f7a2e-1c3d-4e5f-8a9b-0c1d2e3f4a5b"),
		},
		{"malformed rejected", table.Text("not-a-uuid"), table.Absent()},
		{"absent passes through", table.Absent(), table.Absent()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanUUIDCell(tt.input); !got.Equal(tt.want) {
				t.Errorf("cleanUUIDCell(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateTimestampCell(t *testing.T) {
	tests := []struct {
		name  string
		input table.Value
		want  table.Value
	}{
		// The original text survives validation; parsing is only a check
		{"valid timestamp kept as text", table.Text("22:00:06"), table.Text("22:00:06")},
		{"midnight valid", table.Text("00:00:00"), table.Text("00:00:00")},
		{"out-of-range hour rejected", table.Text("25:00:00"), table.Absent()},
		{"garbage rejected", table.Text("evening"), table.Absent()},
		{"absent passes through", table.Absent(), table.Absent()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validateTimestampCell(tt.input); !got.Equal(tt.want) {
				t.Errorf("validateTimestampCell(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseWeightCell(t *testing.T) {
	factors := map[string]float64{"kg": 1, "g": 0.001, "ml": 0.001, "oz": 0.0283495}

	tests := []struct {
		name  string
		input table.Value
		want  float64
	}{
		{"kilograms", table.Text("2kg"), 2.0},
		{"grams", table.Text("200g"), 0.2},
		{"millilitres as mass", table.Text("500ml"), 0.5},
		{"ounces", table.Text("1oz"), 0.0283495},
		{"multiplier prefix", table.Text("10 x 200g"), 2.0},
		{"multiplier without spaces", table.Text("12x100g"), 1.2},
		{"decimal magnitude", table.Text("999.99kg"), 999.99},
		{"trailing noise tolerated", table.Text("77kg ."), 77.0},
		{"whitespace between number and unit", table.Text("1.5 kg"), 1.5},
		{"uppercase unit", table.Text("500ML"), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseWeightCell(tt.input, factors)
			f, ok := got.Float()
			if !ok {
				t.Fatalf("parseWeightCell(%v) = %v, want float", tt.input, got)
			}
			if math.Abs(f-tt.want) > 1e-9 {
				t.Errorf("parseWeightCell(%v) = %v, want %v", tt.input, f, tt.want)
			}
		})
	}
}

func TestParseWeightCellInvalid(t *testing.T) {
	factors := map[string]float64{"kg": 1, "g": 0.001, "ml": 0.001, "oz": 0.0283495}

	tests := []struct {
		name  string
		input table.Value
	}{
		{"no unit", table.Text("500")},
		{"unknown unit", table.Text("500lb")},
		{"no magnitude", table.Text("kg")},
		{"garbage", table.Text("heavy")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseWeightCell(tt.input, factors); !got.IsAbsent() {
				t.Errorf("parseWeightCell(%v) = %v, want absent", tt.input, got)
			}
		})
	}

	// Already-converted values pass through untouched
	if got := parseWeightCell(table.Float(2.5), factors); !got.Equal(table.Float(2.5)) {
		t.Errorf("parseWeightCell(Float) = %v, want pass-through", got)
	}
}

func TestStandardizeNulls(t *testing.T) {
	tb := table.New("a", "b")
	tb.AppendRow(map[string]table.Value{"a": table.Text("NULL"), "b": table.Text("ok")})
	tb.AppendRow(map[string]table.Value{"a": table.Text("N/A"), "b": table.Text("null")})
	tb.AppendRow(map[string]table.Value{"a": table.Text(" NULL"), "b": table.Text("n/a")})

	got, err := standardizeNulls(tb)
	if err != nil {
		t.Fatalf("standardizeNulls() error = %v", err)
	}

	if cell, _ := got.Cell("a", 0); !cell.IsAbsent() {
		t.Error("exact NULL should become absent")
	}
	if cell, _ := got.Cell("a", 1); !cell.IsAbsent() {
		t.Error("exact N/A should become absent")
	}
	// Matching is exact and case-sensitive
	if cell, _ := got.Cell("a", 2); cell.String() != " NULL" {
		t.Errorf("padded NULL should survive, got %q", cell.String())
	}
	if cell, _ := got.Cell("b", 1); cell.String() != "null" {
		t.Errorf("lowercase null should survive, got %q", cell.String())
	}
	if cell, _ := got.Cell("b", 2); cell.String() != "n/a" {
		t.Errorf("lowercase n/a should survive, got %q", cell.String())
	}
}

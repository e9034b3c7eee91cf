// pkg/cleaner/weights.go
package cleaner

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/retailetl/sanitize/pkg/table"
)

// Weight specifications follow "<int> x <number><unit>" with an optional
// multiplier prefix and optional whitespace. Observed valid forms include
// "999ml", "999.99kg", "99kg .", "10 x 999.99g".
var (
	reWeightMultiplier = regexp.MustCompile(`(?i)([0-9]+)\s*x\s*[0-9]`)
	reWeightQuantity   = regexp.MustCompile(`(?i)([0-9.]+)\s*(kg|g|ml|oz)\b`)
)

// parseWeightCell parses a weight specification and converts it to
// kilograms using the injected unit conversion table. Cells whose magnitude
// or unit cannot be extracted become absent; the parser never fails.
// Cells already carrying a numeric kilogram value pass through unchanged.
func parseWeightCell(v table.Value, factors map[string]float64) table.Value {
	switch v.Kind() {
	case table.KindAbsent, table.KindFloat, table.KindInt:
		return v
	case table.KindText:
		s := v.String()

		multiplier := 1.0
		if m := reWeightMultiplier.FindStringSubmatch(s); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return table.Absent()
			}
			multiplier = float64(n)
		}

		m := reWeightQuantity.FindStringSubmatch(s)
		if m == nil {
			return table.Absent()
		}
		magnitude, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return table.Absent()
		}
		factor, ok := factors[strings.ToLower(m[2])]
		if !ok {
			return table.Absent()
		}

		return table.Float(magnitude * multiplier * factor)
	default:
		return table.Absent()
	}
}

// pkg/sink/sink.go
package sink

import (
	"context"

	"github.com/retailetl/sanitize/pkg/table"
)

// Consumer accepts a cleaned table for persistence. Implementations are
// expected to treat the absent-value marker as their native null
// representation.
type Consumer interface {
	// Write persists the table under the given target name
	Write(ctx context.Context, target string, t *table.Table) error

	// Close releases resources held by the consumer
	Close() error
}

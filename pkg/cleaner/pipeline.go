// pkg/cleaner/pipeline.go
package cleaner

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/retailetl/sanitize/pkg/table"
)

// StageFunc transforms one table into another. Stages never fail on cell
// content; the only error surface is structural (a required column missing
// from the input).
type StageFunc func(*table.Table) (*table.Table, error)

// Stage is a named step in a cleaning pipeline
type Stage struct {
	Name  string
	Apply StageFunc
}

// Pipeline is an ordered chain of table-to-table stages for one entity kind.
// Stage order matters only where a repair must precede validation on the
// same column; stages themselves share no state.
type Pipeline struct {
	name   string
	stages []Stage
	logger *zap.Logger
}

// NewPipeline creates an empty pipeline for the named entity
func NewPipeline(name string, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		name:   name,
		logger: logger.Named(name),
	}
}

// Append adds a stage to the end of the pipeline
func (p *Pipeline) Append(name string, fn StageFunc) *Pipeline {
	p.stages = append(p.stages, Stage{Name: name, Apply: fn})
	return p
}

// Run executes the pipeline over the input table. An input with zero rows
// short-circuits to an empty result without invoking any stage; a failed
// upstream extraction is not an engine error.
func (p *Pipeline) Run(t *table.Table) (*table.Table, error) {
	if t == nil {
		t = table.New()
	}

	if t.NumRows() == 0 {
		p.logger.Info("Cleaning not attempted; input table has no rows")
		return t, nil
	}

	start := time.Now()
	rowsIn := t.NumRows()

	current := t
	for _, stage := range p.stages {
		before := current.NumRows()
		next, err := stage.Apply(current)
		if err != nil {
			return next, fmt.Errorf("%s: stage %s: %w", p.name, stage.Name, err)
		}
		current = next
		p.logger.Debug("Stage applied",
			zap.String("stage", stage.Name),
			zap.Int("rows_before", before),
			zap.Int("rows_after", current.NumRows()))
	}

	p.logger.Info("Cleaning complete",
		zap.Int("rows_in", rowsIn),
		zap.Int("rows_out", current.NumRows()),
		zap.Int("rows_dropped", rowsIn-current.NumRows()),
		zap.Duration("duration", time.Since(start)))

	return current, nil
}

// pkg/sink/postgres.go
package sink

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/retailetl/sanitize/pkg/config"
	"github.com/retailetl/sanitize/pkg/table"
)

// Postgres writes cleaned tables to PostgreSQL. Absent cells are written
// as SQL NULL. Target tables must already exist; schema management is the
// responsibility of the deployment, not this writer.
type Postgres struct {
	db        *sqlx.DB
	logger    *zap.Logger
	batchSize int
}

// NewPostgres creates and verifies a PostgreSQL sink
func NewPostgres(ctx context.Context, cfg *config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	if cfg == nil {
		return nil, errors.New("postgres configuration cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	logger.Info("Connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.String("user", cfg.User))

	db, err := sqlx.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	return &Postgres{
		db:        db,
		logger:    logger,
		batchSize: 500,
	}, nil
}

// WithBatchSize sets the number of rows per INSERT statement
func (p *Postgres) WithBatchSize(batchSize int) *Postgres {
	if batchSize > 0 {
		p.batchSize = batchSize
	}
	return p
}

// Write inserts every row of the table into the target table inside a
// single transaction
func (p *Postgres) Write(ctx context.Context, target string, t *table.Table) error {
	if t == nil || t.NumRows() == 0 {
		p.logger.Info("Nothing to write", zap.String("target", target))
		return nil
	}

	columns := t.Columns()
	if len(columns) == 0 {
		return errors.New("table has no columns")
	}

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				p.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.Error(err))
			}
		}
	}()

	rows := t.NumRows()
	for offset := 0; offset < rows; offset += p.batchSize {
		end := offset + p.batchSize
		if end > rows {
			end = rows
		}

		stmt := insertStatement(target, columns, end-offset)
		args := make([]interface{}, 0, (end-offset)*len(columns))
		for i := offset; i < end; i++ {
			for _, name := range columns {
				cell, _ := t.Cell(name, i)
				args = append(args, bindValue(cell))
			}
		}

		if _, err = tx.ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("failed to insert rows %d-%d into %s: %w", offset, end, target, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	p.logger.Info("Wrote cleaned table",
		zap.String("target", target),
		zap.Int("rows", rows),
		zap.Int("columns", len(columns)))
	return nil
}

// Close closes the database connection
func (p *Postgres) Close() error {
	p.logger.Info("Closing PostgreSQL connection")
	return p.db.Close()
}

// insertStatement builds a multi-row INSERT with positional placeholders
func insertStatement(target string, columns []string, rows int) string {
	quoted := make([]string, len(columns))
	for i, name := range columns {
		quoted[i] = pq.QuoteIdentifier(name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ",
		pq.QuoteIdentifier(target), strings.Join(quoted, ", "))

	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for c := range columns {
			if c > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
		}
		b.WriteString(")")
	}
	return b.String()
}

// bindValue maps a table cell to a driver value; absent cells become NULL
func bindValue(v table.Value) interface{} {
	switch v.Kind() {
	case table.KindText:
		return v.String()
	case table.KindFloat:
		f, _ := v.Float()
		return f
	case table.KindInt:
		i, _ := v.Int()
		return i
	case table.KindBool:
		b, _ := v.Bool()
		return b
	case table.KindTime:
		t, _ := v.Time()
		return t
	default:
		return nil
	}
}

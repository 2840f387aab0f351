// Package derby adapts generic ORM requests to the Apache Derby SQL dialect.
//
// An Adapter turns abstract DDL/DML intents (add or change a column, paginate,
// quote an identifier, dump the schema) into Derby-correct SQL text, and either
// returns that text or runs it through a Conn. It keeps no state besides its
// read-only configuration and can be shared between goroutines.
package derby

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// Config holds the connection-level settings the adapter derives its schema from.
type Config struct {
	// Username is the connecting user. Derby names the default schema after it.
	Username string
	// Schema overrides the username-derived schema when set.
	Schema string
	// NativeTypes overrides entries of DefaultNativeTypes.
	NativeTypes NativeTypes
}

// IDQuoter renders one primary-key value for an id list. See SelectLimitedIDs.
type IDQuoter func(value any, pk *Column) string

// Option configures an Adapter at construction time.
type Option func(*Adapter)

// WithLogger sets the logger used for issued statements and fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithIDQuoter replaces the strategy SelectLimitedIDs uses to quote ids.
func WithIDQuoter(q IDQuoter) Option {
	return func(a *Adapter) {
		if q != nil {
			a.quoteID = q
		}
	}
}

// Adapter is the Derby dialect translator.
type Adapter struct {
	conn    Conn
	cfg     Config
	types   NativeTypes
	quoteID IDQuoter
	logger  *slog.Logger
}

// New creates an adapter that delegates execution to conn.
func New(conn Conn, cfg Config, opts ...Option) *Adapter {
	a := &Adapter{
		conn:   conn,
		cfg:    cfg,
		types:  DefaultNativeTypes().merge(cfg.NativeTypes),
		logger: slog.New(slog.DiscardHandler),
	}
	a.quoteID = a.Quote
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the adapter name reported to the ORM.
func (a *Adapter) Name() string {
	return "Derby"
}

// IndexNameLength is the longest index identifier Derby accepts.
func (a *Adapter) IndexNameLength() int {
	return 128
}

// Schema returns the schema the adapter introspects: the configured override,
// else the username, else empty (all schemas).
func (a *Adapter) Schema() string {
	if a.cfg.Schema != "" {
		return a.cfg.Schema
	}
	return a.cfg.Username
}

// schemaArg is the schema as a catalog-procedure argument; NULL matches every schema.
func (a *Adapter) schemaArg() any {
	if s := a.Schema(); s != "" {
		return s
	}
	return nil
}

// Execute runs stmt after rewriting NULL comparisons.
func (a *Adapter) Execute(ctx context.Context, stmt string, args ...any) (sql.Result, error) {
	return a.exec(ctx, a.conn, stmt, args...)
}

// Transaction runs fn in a single transaction, rolling back if fn fails.
// Statements issued through the Execer handed to fn get the same rewrite as Execute.
func (a *Adapter) Transaction(ctx context.Context, fn func(Execer) error) error {
	return a.inTx(ctx, func(tx Tx) error {
		return fn(execerFunc(func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			return a.exec(ctx, tx, query, args...)
		}))
	})
}

func (a *Adapter) inTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := a.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			a.logger.Warn("rollback failed", slog.String("error", rbErr.Error()))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (a *Adapter) exec(ctx context.Context, e Execer, stmt string, args ...any) (sql.Result, error) {
	stmt = RewriteNullComparisons(stmt)
	a.logger.Debug("execute", slog.String("sql", stmt))
	res, err := e.ExecContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("execute %q: %w", stmt, err)
	}
	return res, nil
}

// Select runs a query after rewriting NULL comparisons. The caller closes the rows.
func (a *Adapter) Select(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	query = RewriteNullComparisons(query)
	a.logger.Debug("select", slog.String("sql", query))
	rows, err := a.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", query, err)
	}
	return rows, nil
}

// SelectValue returns the first column of the first row, or an invalid
// NullString when the query yields no rows.
func (a *Adapter) SelectValue(ctx context.Context, query string, args ...any) (sql.NullString, error) {
	var v sql.NullString
	rows, err := a.Select(ctx, query, args...)
	if err != nil {
		return v, err
	}
	defer func() { _ = rows.Close() }()

	if rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return v, err
		}
		dest := make([]any, len(cols))
		dest[0] = &v
		for i := 1; i < len(dest); i++ {
			dest[i] = new(any)
		}
		if err := rows.Scan(dest...); err != nil {
			return v, fmt.Errorf("scan value: %w", err)
		}
	}
	return v, rows.Err()
}

// SelectLimitedIDs runs the id-limiting query an ORM issues before eager loading
// and returns the ids of pk joined with ", ", each rendered by the adapter's IDQuoter.
// The default quoter renders values against pk's type, so numeric keys are never
// compared as CHAR.
func (a *Adapter) SelectLimitedIDs(ctx context.Context, query string, pk Column) (string, error) {
	rows, err := a.Select(ctx, query)
	if err != nil {
		return "", err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return "", err
	}
	idx := -1
	for i, c := range cols {
		if strings.EqualFold(c, pk.Name) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", fmt.Errorf("%w: %s is not selected by the id query", ErrNoPrimaryKey, pk.Name)
	}

	var ids []string
	for rows.Next() {
		vals := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return "", fmt.Errorf("scan id: %w", err)
		}
		v := vals[idx]
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		ids = append(ids, a.quoteID(v, &pk))
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return strings.Join(ids, ", "), nil
}

package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"derby-shim/internal/derby"
	"derby-shim/internal/dialect"
	"derby-shim/internal/schema"
)

// maxVarchar is the longest VARCHAR Derby accepts; longer strings become CLOB.
const maxVarchar = 32672

// maxDecimalPrecision is Derby's DECIMAL precision limit.
const maxDecimalPrecision = 31

// Port statuses.
const (
	StatusOK      = "OK"
	StatusCreated = "CREATED"
	StatusFailed  = "FAILED"
)

// PortResult reports one table of a port run.
type PortResult struct {
	TableName string
	Rows      int
	Status    string
	ErrorMsg  string
}

// PortOptions controls a port run.
type PortOptions struct {
	// CopyData copies rows after the table is created.
	CopyData bool
	// BatchSize is the number of rows inserted per transaction.
	BatchSize int
	// Limit caps the rows copied per table; 0 copies everything.
	Limit int
	// OnProgress is called after each table.
	OnProgress func(table string)
}

// Porter recreates source tables in Derby and optionally copies their rows.
type Porter struct {
	src    *sql.DB
	d      dialect.Dialect
	target *derby.Adapter
	opts   PortOptions
	logger *slog.Logger
}

func NewPorter(src *sql.DB, d dialect.Dialect, target *derby.Adapter, opts PortOptions, logger *slog.Logger) *Porter {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Porter{src: src, d: d, target: target, opts: opts, logger: logger}
}

// Port processes tables in the given order, which should be dependency order.
// A failing table is reported in its PortResult and does not stop the run;
// only a cancelled context does.
func (p *Porter) Port(ctx context.Context, tables []*schema.Table) ([]PortResult, error) {
	var results []PortResult

	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := p.portTable(ctx, table)
		if res.Status == StatusFailed {
			p.logger.Warn("table port failed", slog.String("table", table.Name), slog.String("error", res.ErrorMsg))
		}
		results = append(results, res)

		if p.opts.OnProgress != nil {
			p.opts.OnProgress(table.Name)
		}
	}

	return results, nil
}

func (p *Porter) portTable(ctx context.Context, table *schema.Table) PortResult {
	res := PortResult{TableName: table.Name, Status: StatusCreated}

	def := BuildDefinition(table)
	if err := p.target.CreateTable(ctx, def); err != nil {
		res.Status = StatusFailed
		res.ErrorMsg = err.Error()
		return res
	}
	if !p.opts.CopyData {
		return res
	}

	n, err := p.copyRows(ctx, table)
	res.Rows = n
	if err != nil {
		res.Status = StatusFailed
		res.ErrorMsg = fmt.Sprintf("copied %d rows: %v", n, err)
		return res
	}

	// Explicit ids were inserted, so the identity must move past them.
	if id := identityColumn(table); id != nil && n > 0 {
		if err := p.target.ResetSequence(ctx, table.Name, id.Name); err != nil {
			res.Status = StatusFailed
			res.ErrorMsg = err.Error()
			return res
		}
	}

	res.Status = StatusOK
	return res
}

// copyRows streams the source rows into Derby, one transaction per batch.
func (p *Porter) copyRows(ctx context.Context, table *schema.Table) (int, error) {
	names := make([]string, len(table.Columns))
	quoted := make([]string, len(table.Columns))
	marks := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		names[i] = c.Name
		quoted[i] = p.target.QuoteColumnName(c.Name)
		marks[i] = "?"
	}

	query := dialect.SelectQuery(p.d, table.Name, names)
	if p.opts.Limit > 0 {
		query = p.d.GetLimitRowQuery(query, p.opts.Limit)
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		p.target.QuoteTableName(table.Name), strings.Join(quoted, ", "), strings.Join(marks, ", "))

	rows, err := p.src.QueryContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", table.Name, err)
	}
	defer rows.Close()

	copied := 0
	batch := make([][]any, 0, p.opts.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := p.target.Transaction(ctx, func(e derby.Execer) error {
			for _, vals := range batch {
				if _, err := e.ExecContext(ctx, insert, vals...); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		copied += len(batch)
		p.logger.Debug("batch copied", slog.String("table", table.Name), slog.Int("rows", copied))
		batch = batch[:0]
		return nil
	}

	for rows.Next() {
		vals := make([]any, len(table.Columns))
		dest := make([]any, len(table.Columns))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return copied, fmt.Errorf("scan %s: %w", table.Name, err)
		}
		for i, c := range table.Columns {
			if b, ok := vals[i].([]byte); ok && c.DataType != derby.TypeBinary {
				vals[i] = string(b)
			}
		}
		batch = append(batch, vals)
		if len(batch) >= p.opts.BatchSize {
			if err := flush(); err != nil {
				return copied, err
			}
		}
	}
	if err := rows.Err(); err != nil {
		return copied, fmt.Errorf("read %s: %w", table.Name, err)
	}
	if err := flush(); err != nil {
		return copied, err
	}
	return copied, nil
}

// identityColumn returns the single auto-increment integer key of t, the
// only shape Derby can express as an identity primary key.
func identityColumn(t *schema.Table) *schema.Column {
	pk := t.PrimaryKey()
	if len(pk) != 1 {
		return nil
	}
	if c := pk[0]; c.IsAutoInc && c.DataType == derby.TypeInteger {
		return c
	}
	return nil
}

// BuildDefinition maps an analysed source table onto a Derby table definition.
// Source defaults are not carried over; their expressions are vendor SQL.
func BuildDefinition(t *schema.Table) derby.TableDefinition {
	def := derby.TableDefinition{Name: t.Name}
	identity := identityColumn(t)

	for _, c := range t.Columns {
		cd := derby.ColumnDefinition{Name: c.Name, Type: c.DataType}
		if c == identity {
			cd.Type = derby.TypePrimaryKey
			def.Columns = append(def.Columns, cd)
			continue
		}

		switch cd.Type {
		case derby.TypeString:
			switch {
			case c.Length < 0 || c.Length > maxVarchar:
				cd.Type = derby.TypeText
			case c.Length > 0:
				cd.Options.Limit = derby.Int(c.Length)
			}
		case derby.TypeBinary:
			if c.Length > 0 {
				cd.Options.Limit = derby.Int(c.Length)
			}
		case derby.TypeDecimal:
			if c.Precision > 0 {
				prec := min(c.Precision, maxDecimalPrecision)
				cd.Options.Precision = derby.Int(prec)
				cd.Options.Scale = derby.Int(min(c.Scale, prec))
			}
		}
		if !c.IsNullable {
			cd.Options.Null = derby.Bool(false)
		}
		def.Columns = append(def.Columns, cd)

		if c.IsPK && identity == nil {
			def.PrimaryKey = append(def.PrimaryKey, c.Name)
		}
	}
	return def
}

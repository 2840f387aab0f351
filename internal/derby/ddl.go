package derby

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// AddColumn adds a column. A NOT NULL request is applied by a second ALTER
// once the column exists.
func (a *Adapter) AddColumn(ctx context.Context, table, column, typ string, opts ColumnOptions) error {
	return a.addColumn(ctx, a.conn, table, column, typ, opts)
}

func (a *Adapter) addColumn(ctx context.Context, e Execer, table, column, typ string, opts ColumnOptions) error {
	notNull := opts.Null != nil && !*opts.Null
	if notNull {
		opts.Null = nil
	}

	typeSQL, err := a.TypeToSQL(typ, opts.Limit, opts.Precision, opts.Scale)
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf("ALTER TABLE %s ADD %s %s", a.QuoteTableName(table), a.QuoteColumnName(column), typeSQL)
	if _, err := a.exec(ctx, e, a.AddColumnOptions(stmt, opts)); err != nil {
		return err
	}

	if notNull {
		stmt = fmt.Sprintf("ALTER TABLE %s ALTER %s NOT NULL", a.QuoteTableName(table), a.QuoteColumnName(column))
		if _, err := a.exec(ctx, e, stmt); err != nil {
			return err
		}
	}
	return nil
}

// ChangeColumn changes a column's nullability, type and default.
//
// Nullability is a dedicated ALTER. The type change is always issued, first as
// ALTER COLUMN ... SET DATA TYPE; engines that reject it get a copy migration
// inside one transaction: add <column>_newtype, copy the data with a CAST,
// drop the original and rename the copy into its place. A requested default
// follows the direct change; the copy already carries it.
func (a *Adapter) ChangeColumn(ctx context.Context, table, column, typ string, opts ColumnOptions) error {
	qt, qc := a.QuoteTableName(table), a.QuoteColumnName(column)

	if opts.Null != nil {
		nullability := "NULL"
		if !*opts.Null {
			nullability = "NOT NULL"
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s", qt, qc, nullability)
		if _, err := a.exec(ctx, a.conn, stmt); err != nil {
			return err
		}
		opts.Null = nil
	}

	typeSQL, err := a.TypeToSQL(typ, opts.Limit, opts.Precision, opts.Scale)
	if err != nil {
		return err
	}

	stmt := fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DATA TYPE %s", qt, qc, typeSQL)
	_, directErr := a.exec(ctx, a.conn, stmt)
	if directErr == nil {
		return a.changeDefault(ctx, qt, qc, opts)
	}
	a.logger.Warn("SET DATA TYPE rejected, migrating column by copy",
		slog.String("table", table), slog.String("column", column), slog.String("error", directErr.Error()))

	temp := column + "_newtype"
	err = a.inTx(ctx, func(tx Tx) error {
		if err := a.addColumn(ctx, tx, table, temp, typ, opts); err != nil {
			return err
		}
		copySQL := fmt.Sprintf("UPDATE %s SET %s = CAST(%s AS %s)", qt, a.QuoteColumnName(temp), qc, typeSQL)
		if _, err := a.exec(ctx, tx, copySQL); err != nil {
			return err
		}
		if err := a.removeColumn(ctx, tx, table, column); err != nil {
			return err
		}
		return a.renameColumn(ctx, tx, table, temp, column)
	})
	if err != nil {
		return fmt.Errorf("change column %s.%s: %w", table, column, err)
	}
	return nil
}

// changeDefault sets the default requested in opts. An explicit nil default
// drops it, since Derby mishandles DEFAULT NULL.
func (a *Adapter) changeDefault(ctx context.Context, qt, qc string, opts ColumnOptions) error {
	if !opts.HasDefault {
		return nil
	}
	clause := "DROP DEFAULT"
	if opts.Default != nil {
		clause = "DEFAULT " + a.Quote(opts.Default, nil)
	}
	_, err := a.exec(ctx, a.conn, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s", qt, qc, clause))
	return err
}

// RemoveColumn drops a column, refusing if other objects depend on it.
func (a *Adapter) RemoveColumn(ctx context.Context, table, column string) error {
	return a.removeColumn(ctx, a.conn, table, column)
}

func (a *Adapter) removeColumn(ctx context.Context, e Execer, table, column string) error {
	stmt := fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s RESTRICT", a.QuoteTableName(table), a.QuoteColumnName(column))
	_, err := a.exec(ctx, e, stmt)
	return err
}

// RenameColumn renames a column.
func (a *Adapter) RenameColumn(ctx context.Context, table, column, newName string) error {
	return a.renameColumn(ctx, a.conn, table, column, newName)
}

func (a *Adapter) renameColumn(ctx context.Context, e Execer, table, column, newName string) error {
	stmt := fmt.Sprintf("RENAME COLUMN %s.%s TO %s",
		a.QuoteTableName(table), a.QuoteColumnName(column), a.QuoteColumnName(newName))
	_, err := a.exec(ctx, e, stmt)
	return err
}

// RenameTable renames a table.
func (a *Adapter) RenameTable(ctx context.Context, name, newName string) error {
	stmt := fmt.Sprintf("RENAME TABLE %s TO %s", a.QuoteTableName(name), a.QuoteTableName(newName))
	_, err := a.exec(ctx, a.conn, stmt)
	return err
}

// IndexOptions identifies an index either by name or by the columns it covers.
type IndexOptions struct {
	Name    string
	Columns []string
}

// IndexName returns opts.Name, or the ORM's conventional
// index_<table>_on_<col>_and_<col> name.
func (a *Adapter) IndexName(table string, opts IndexOptions) string {
	if opts.Name != "" {
		return opts.Name
	}
	return fmt.Sprintf("index_%s_on_%s", table, strings.Join(opts.Columns, "_and_"))
}

// RemoveIndex drops an index. Derby index names are schema-wide, so the
// table only feeds the conventional name.
func (a *Adapter) RemoveIndex(ctx context.Context, table string, opts IndexOptions) error {
	_, err := a.exec(ctx, a.conn, "DROP INDEX "+a.IndexName(table, opts))
	return err
}

// ColumnDefinition is one column of a TableDefinition.
type ColumnDefinition struct {
	Name    string
	Type    string
	Options ColumnOptions
}

// TableDefinition describes a table for CreateTable.
type TableDefinition struct {
	Name    string
	Columns []ColumnDefinition
	// PrimaryKey lists key columns when no column uses TypePrimaryKey.
	PrimaryKey []string
}

// CreateTableSQL renders def as a CREATE TABLE statement.
func (a *Adapter) CreateTableSQL(def TableDefinition) (string, error) {
	parts := make([]string, 0, len(def.Columns)+1)
	hasIdentity := false
	for _, c := range def.Columns {
		typeSQL, err := a.TypeToSQL(c.Type, c.Options.Limit, c.Options.Precision, c.Options.Scale)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", c.Name, err)
		}
		col := a.QuoteColumnName(c.Name) + " " + typeSQL
		if strings.EqualFold(c.Type, TypePrimaryKey) {
			hasIdentity = true
		} else {
			col = a.AddColumnOptions(col, c.Options)
		}
		parts = append(parts, col)
	}
	if len(def.PrimaryKey) > 0 && !hasIdentity {
		keys := make([]string, len(def.PrimaryKey))
		for i, k := range def.PrimaryKey {
			keys[i] = a.QuoteColumnName(k)
		}
		parts = append(parts, "PRIMARY KEY ("+strings.Join(keys, ", ")+")")
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", a.QuoteTableName(def.Name), strings.Join(parts, ", ")), nil
}

// CreateTable creates def.
func (a *Adapter) CreateTable(ctx context.Context, def TableDefinition) error {
	stmt, err := a.CreateTableSQL(def)
	if err != nil {
		return err
	}
	_, err = a.exec(ctx, a.conn, stmt)
	return err
}

// DropTable drops a table.
func (a *Adapter) DropTable(ctx context.Context, name string) error {
	_, err := a.exec(ctx, a.conn, "DROP TABLE "+a.QuoteTableName(name))
	return err
}

// RecreateDatabase drops every table of the adapter's schema, last listed
// first. It keeps going past failures and returns them joined.
func (a *Adapter) RecreateDatabase(ctx context.Context) error {
	tables, err := a.Tables(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for i := len(tables) - 1; i >= 0; i-- {
		if err := a.DropTable(ctx, tables[i]); err != nil {
			a.logger.Warn("drop table failed", slog.String("table", tables[i]), slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

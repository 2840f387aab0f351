package derby

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// ResetSequence restarts column's identity at MAX(column)+1. Run it after
// bulk loads that supplied explicit ids.
func (a *Adapter) ResetSequence(ctx context.Context, table, column string) error {
	qt, qc := a.QuoteTableName(table), a.QuoteColumnName(column)
	maxID, err := a.SelectValue(ctx, fmt.Sprintf("SELECT MAX(%s) FROM %s", qc, qt))
	if err != nil {
		return err
	}
	next := toInt(maxID.String) + 1
	_, err = a.exec(ctx, a.conn, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s RESTART WITH %d", qt, qc, next))
	return err
}

// ResetPKSequence resets the identity behind table's primary key. Tables whose
// key is not an integer are left alone.
func (a *Adapter) ResetPKSequence(ctx context.Context, table string) error {
	keys, err := a.PrimaryKeys(ctx, table)
	if err != nil {
		return err
	}
	if len(keys) != 1 {
		return fmt.Errorf("%s: %w", table, ErrNoPrimaryKey)
	}

	cols, err := a.Columns(ctx, table)
	if err != nil {
		return err
	}
	for _, c := range cols {
		if !strings.EqualFold(c.Name, keys[0]) {
			continue
		}
		if c.Type != TypeInteger {
			a.logger.Debug("primary key is not an integer, sequence left alone",
				slog.String("table", table), slog.String("column", c.Name), slog.String("type", c.Type))
			return nil
		}
		return a.ResetSequence(ctx, table, keys[0])
	}
	return fmt.Errorf("%s: primary key column %s not found: %w", table, keys[0], ErrNoPrimaryKey)
}

// toInt parses s as an integer, truncating decimals; 0 when s is not numeric.
func toInt(s string) int64 {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

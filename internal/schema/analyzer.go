package schema

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"derby-shim/internal/dialect"
)

// ---------------------------------------------------------------------
// 1. Schema Analysis Logic
// ---------------------------------------------------------------------

// Analyze reads tables, columns and foreign keys of a source schema and
// returns the tables in dependency order.
func Analyze(ctx context.Context, db *sql.DB, d dialect.Dialect, schemaName string, logger *slog.Logger) ([]*Table, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	target := d.GetSchemaName(schemaName)

	// Keys are upper-cased so lookups survive vendors that fold case differently.
	tableMap := make(map[string]*Table)
	var tables []*Table

	// --- Step 1: Fetch Tables ---
	rows, err := db.QueryContext(ctx, d.GetTablesQuery(), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		t := &Table{Name: name, Dependencies: []string{}}
		tableMap[strings.ToUpper(name)] = t
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}

	// --- Step 2: Fetch Columns ---
	colRows, err := db.QueryContext(ctx, d.GetColumnsQuery(), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer colRows.Close()

	for colRows.Next() {
		var tName, cName, dType, cLen, nPrec, nScale, isNull, cKey, extra, isUnique sql.NullString

		if err := colRows.Scan(&tName, &cName, &dType, &cLen, &nPrec, &nScale, &isNull, &cKey, &extra, &isUnique); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", tName.String, err)
		}

		if !tName.Valid || !cName.Valid {
			continue
		}

		t, ok := tableMap[strings.ToUpper(tName.String)]
		if !ok {
			continue
		}

		isAutoInc := false
		if extra.Valid {
			extraLower := strings.ToLower(extra.String)
			isAutoInc = strings.Contains(extraLower, "auto_increment") ||
				strings.Contains(extraLower, "identity") ||
				strings.Contains(extraLower, "nextval")
		}

		t.Columns = append(t.Columns, &Column{
			Name:       cName.String,
			DataType:   d.NormalizeType(dType.String),
			SourceType: dType.String,
			Length:     parseSize(cLen),
			Precision:  parseSize(nPrec),
			Scale:      parseSize(nScale),
			IsNullable: strings.EqualFold(isNull.String, "YES"),
			IsPK:       strings.Contains(cKey.String, "PRI"),
			IsAutoInc:  isAutoInc,
			IsUnique:   strings.Contains(isUnique.String, "UNIQUE"),
		})
	}
	if err := colRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}

	// --- Step 3: Fetch Foreign Keys ---
	fkRows, err := db.QueryContext(ctx, d.GetForeignKeysQuery(), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer fkRows.Close()

	for fkRows.Next() {
		var tName, cConst, cName, rTable, rCol sql.NullString
		if err := fkRows.Scan(&tName, &cConst, &cName, &rTable, &rCol); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}

		// Self references do not constrain the order.
		if !tName.Valid || !rTable.Valid || tName.String == rTable.String {
			continue
		}
		t, ok := tableMap[strings.ToUpper(tName.String)]
		if !ok {
			continue
		}
		// References outside the analysed schema cannot be ported.
		ref, ok := tableMap[strings.ToUpper(rTable.String)]
		if !ok {
			logger.Debug("skipping foreign key to unknown table",
				slog.String("table", t.Name), slog.String("constraint", cConst.String), slog.String("ref", rTable.String))
			continue
		}
		t.Dependencies = append(t.Dependencies, ref.Name)
		t.ForeignKeys = append(t.ForeignKeys, &ForeignKey{
			Column:    cName.String,
			RefTable:  ref.Name,
			RefColumn: rCol.String,
		})
	}
	if err := fkRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating foreign keys: %w", err)
	}

	return SortTablesByFKCount(tables, logger), nil
}

// parseSize reads a catalog size column; drivers hand these back as integers,
// decimals or text depending on the vendor.
func parseSize(v sql.NullString) int {
	if !v.Valid || v.String == "" {
		return 0
	}
	var n int
	if _, err := fmt.Sscanf(v.String, "%d", &n); err == nil {
		return n
	}
	var f float64
	if _, err := fmt.Sscanf(v.String, "%f", &f); err == nil {
		return int(f)
	}
	return 0
}

// ---------------------------------------------------------------------
// 2. Sorting Algorithm (Topological / Greedy)
// ---------------------------------------------------------------------

// SortTablesByFKCount sorts tables so referenced tables come first.
// Cycles are broken with a score that prefers tables with few unmet
// dependencies and tables that sit on a two-way cycle.
func SortTablesByFKCount(tables []*Table, logger *slog.Logger) []*Table {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var sorted []*Table
	processed := make(map[string]bool)
	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}

	for len(sorted) < len(tables) {
		added := false

		// Pass 1: tables whose dependencies are all placed
		for _, t := range tables {
			if processed[t.Name] {
				continue
			}

			ready := true
			for _, dep := range t.Dependencies {
				if !processed[dep] {
					ready = false
					break
				}
			}

			if ready {
				sorted = append(sorted, t)
				processed[t.Name] = true
				added = true
			}
		}
		if added {
			continue
		}

		// Pass 2: nothing placed, so there is a cycle; pick the best table to break it.
		var best *Table
		bestScore := -999999

		for _, t := range tables {
			if processed[t.Name] {
				continue
			}

			score := 0
			circular := false
			for _, dep := range t.Dependencies {
				if processed[dep] {
					continue
				}
				score -= 100
				if cand, ok := byName[dep]; ok && !circular {
					for _, candDep := range cand.Dependencies {
						if candDep == t.Name {
							circular = true
							break
						}
					}
				}
			}
			if circular {
				score += 500
			}

			// Ties go to the later name so the result is deterministic.
			if score > bestScore || (score == bestScore && (best == nil || t.Name > best.Name)) {
				bestScore = score
				best = t
			}
		}

		if best == nil {
			logger.Error("table sort stalled", slog.Int("remaining", len(tables)-len(sorted)))
			break
		}
		sorted = append(sorted, best)
		processed[best.Name] = true
		logger.Info("breaking circular dependency", slog.String("table", best.Name), slog.Int("score", bestScore))
	}

	return sorted
}

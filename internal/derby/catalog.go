package derby

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Derby exposes JDBC DatabaseMetaData through these catalog procedures; their
// result sets carry the JDBC column names (TABLE_NAME, TYPE_NAME, COLUMN_DEF...).
const (
	tablesQuery      = `CALL SYSIBM.SQLTABLES(NULL, ?, NULL, '''TABLE''', ?)`
	columnsQuery     = `CALL SYSIBM.SQLCOLUMNS(NULL, ?, ?, NULL, ?)`
	primaryKeysQuery = `CALL SYSIBM.SQLPRIMARYKEYS(NULL, ?, ?, ?)`
	jdbcOptions      = `DATATYPE='JDBC'`

	autoIncrementQuery = `SELECT C.AUTOINCREMENTSTART, C.AUTOINCREMENTINC, C.COLUMNNAME, C.REFERENCEID, C.COLUMNDEFAULT ` +
		`FROM SYS.SYSCOLUMNS C ` +
		`INNER JOIN SYS.SYSTABLES T ON T.TABLEID = C.REFERENCEID ` +
		`INNER JOIN SYS.SYSSCHEMAS S ON S.SCHEMAID = T.SCHEMAID ` +
		`WHERE T.TABLENAME = ? AND C.COLUMNNAME = ?`

	autoIncrementSchemaFilter = ` AND S.SCHEMANAME = ?`
)

// ColumnMeta is a column as reported by driver metadata.
type ColumnMeta struct {
	Name     string
	TypeName string
	Size     string
	Digits   string
	Default  sql.NullString
	Nullable bool
	Position int
}

// TableSchema is a table rebuilt from driver metadata for one dump.
type TableSchema struct {
	Name    string
	Columns []ColumnMeta
}

// record is one metadata row keyed by upper-cased column label.
type record map[string]sql.NullString

func scanRecords(rows *sql.Rows) ([]record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []record
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan metadata row: %w", err)
		}
		r := make(record, len(cols))
		for i, c := range cols {
			r[strings.ToUpper(c)] = vals[i]
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metadata rows: %w", err)
	}
	return out, nil
}

func (a *Adapter) queryRecords(ctx context.Context, query string, args ...any) ([]record, error) {
	rows, err := a.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanRecords(rows)
}

// catalogName is how Derby stores an identifier: upper case unless it had to
// be quoted as mixed case.
func catalogName(name string) string {
	if hasUpper.MatchString(name) && hasLower.MatchString(name) {
		return name
	}
	return strings.ToUpper(name)
}

// Tables lists the tables of the adapter's schema.
func (a *Adapter) Tables(ctx context.Context) ([]string, error) {
	recs, err := a.queryRecords(ctx, tablesQuery, a.schemaArg(), jdbcOptions)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	names := make([]string, 0, len(recs))
	for _, r := range recs {
		if n := r["TABLE_NAME"]; n.Valid {
			names = append(names, n.String)
		}
	}
	return names, nil
}

// TableSchema reads the column metadata of table in ordinal order.
func (a *Adapter) TableSchema(ctx context.Context, table string) (*TableSchema, error) {
	recs, err := a.queryRecords(ctx, columnsQuery, a.schemaArg(), table, jdbcOptions)
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	ts := &TableSchema{Name: table}
	for _, r := range recs {
		c := ColumnMeta{
			Name:     r["COLUMN_NAME"].String,
			TypeName: r["TYPE_NAME"].String,
			Size:     r["COLUMN_SIZE"].String,
			Digits:   r["DECIMAL_DIGITS"].String,
			Default:  r["COLUMN_DEF"],
			Nullable: r["IS_NULLABLE"].String != "NO",
		}
		c.Position, _ = strconv.Atoi(r["ORDINAL_POSITION"].String)
		ts.Columns = append(ts.Columns, c)
	}
	sort.SliceStable(ts.Columns, func(i, j int) bool { return ts.Columns[i].Position < ts.Columns[j].Position })
	return ts, nil
}

// Columns returns the ORM view of table's columns.
func (a *Adapter) Columns(ctx context.Context, table string) ([]Column, error) {
	ts, err := a.TableSchema(ctx, catalogName(table))
	if err != nil {
		return nil, err
	}
	cols := make([]Column, 0, len(ts.Columns))
	for _, m := range ts.Columns {
		cols = append(cols, m.column())
	}
	return cols, nil
}

func (m ColumnMeta) column() Column {
	sqlType := m.TypeName
	switch strings.ToUpper(m.TypeName) {
	case "DECIMAL", "NUMERIC":
		if m.Size != "" {
			sqlType = fmt.Sprintf("%s(%s,%s)", m.TypeName, m.Size, orZero(m.Digits))
		}
	case "VARCHAR", "CHAR", "CLOB", "BLOB":
		if m.Size != "" {
			sqlType = fmt.Sprintf("%s(%s)", m.TypeName, m.Size)
		}
	}

	c := Column{
		Name:    m.Name,
		Type:    SimplifiedType(sqlType),
		SQLType: sqlType,
		Null:    m.Nullable,
	}
	if m.Default.Valid {
		d := DefaultValue(m.Default.String)
		c.Default = &d
	}
	if n, err := strconv.Atoi(m.Size); err == nil {
		switch c.Type {
		case TypeString, TypeText, TypeBinary:
			c.Limit = &n
		case TypeDecimal:
			c.Precision = &n
			if s, err := strconv.Atoi(m.Digits); err == nil {
				c.Scale = &s
			}
		}
	}
	return c
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// PrimaryKeys returns the primary-key columns of table in key order.
func (a *Adapter) PrimaryKeys(ctx context.Context, table string) ([]string, error) {
	recs, err := a.queryRecords(ctx, primaryKeysQuery, a.schemaArg(), strings.ToUpper(table), jdbcOptions)
	if err != nil {
		return nil, fmt.Errorf("primary keys of %s: %w", table, err)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		si, _ := strconv.Atoi(recs[i]["KEY_SEQ"].String)
		sj, _ := strconv.Atoi(recs[j]["KEY_SEQ"].String)
		return si < sj
	})
	keys := make([]string, 0, len(recs))
	for _, r := range recs {
		keys = append(keys, r["COLUMN_NAME"].String)
	}
	return keys, nil
}

// autoIncrementClause reconstructs the identity clause of column from
// SYS.SYSCOLUMNS, or returns "" when the column is not an identity. Without an
// adapter schema a name shared by several schemas matches several rows; the
// first one wins.
func (a *Adapter) autoIncrementClause(ctx context.Context, table, column string) (string, error) {
	query, args := autoIncrementQuery, []any{table, stripQuotes(column)}
	if schema := a.Schema(); schema != "" {
		query += autoIncrementSchemaFilter
		args = append(args, schema)
	}
	recs, err := a.queryRecords(ctx, query, args...)
	if err != nil {
		return "", fmt.Errorf("identity of %s.%s: %w", table, column, err)
	}
	if len(recs) == 0 {
		return "", nil
	}
	r := recs[0]
	start := r["AUTOINCREMENTSTART"]
	if !start.Valid {
		return "", nil
	}
	generated := "BY DEFAULT"
	if !r["COLUMNDEFAULT"].Valid {
		generated = "ALWAYS"
	}
	return fmt.Sprintf(" GENERATED %s AS IDENTITY (START WITH %s, INCREMENT BY %s)",
		generated, start.String, r["AUTOINCREMENTINC"].String), nil
}

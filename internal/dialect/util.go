package dialect

import (
	"fmt"
	"strings"

	"derby-shim/internal/derby"
)

// SelectQuery builds a plain SELECT of cols from table, quoted for d.
func SelectQuery(d Dialect, table string, cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.QuoteIdentifier(c)
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), d.QuoteIdentifier(table))
}

// LogicalType maps a vendor type name onto a Derby logical type by keyword.
// Dialects consult it after their own exact-name table; anything unrecognised
// becomes a string.
func LogicalType(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	switch {
	case strings.Contains(t, "bool"):
		return derby.TypeBoolean
	case strings.Contains(t, "interval"), strings.Contains(t, "point"):
		return derby.TypeString
	case strings.Contains(t, "int"):
		return derby.TypeInteger
	case strings.Contains(t, "decimal"), strings.Contains(t, "numeric"), strings.Contains(t, "number"), strings.Contains(t, "money"):
		return derby.TypeDecimal
	case strings.Contains(t, "float"), strings.Contains(t, "double"), strings.Contains(t, "real"):
		return derby.TypeFloat
	case strings.Contains(t, "timestamp"):
		return derby.TypeTimestamp
	case strings.Contains(t, "datetime"):
		return derby.TypeDatetime
	case strings.Contains(t, "date"):
		return derby.TypeDate
	case strings.Contains(t, "time"):
		return derby.TypeTime
	case strings.Contains(t, "clob"), strings.Contains(t, "text"), strings.Contains(t, "json"), strings.Contains(t, "xml"):
		return derby.TypeText
	case strings.Contains(t, "blob"), strings.Contains(t, "binary"), strings.Contains(t, "bytea"),
		strings.Contains(t, "image"), strings.Contains(t, "raw"):
		return derby.TypeBinary
	}
	return derby.TypeString
}

func quoteWith(name, open, close string) string {
	return open + strings.ReplaceAll(name, close, close+close) + close
}

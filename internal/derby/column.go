package derby

import (
	"regexp"
	"strings"
)

// Column is a column as the ORM sees it.
type Column struct {
	Name string
	// Type is the logical type (see the Type* constants).
	Type string
	// SQLType is the native type text, e.g. "VARCHAR(256)".
	SQLType   string
	Limit     *int
	Precision *int
	Scale     *int
	Null      bool
	Default   *string
}

func (c *Column) numeric() bool {
	switch c.Type {
	case TypeInteger, TypeFloat, TypeDecimal, TypePrimaryKey:
		return true
	}
	return false
}

var (
	sqlTypeScale = regexp.MustCompile(`\(\s*\d+\s*,\s*(\d+)\s*\)`)
	quotedValue  = regexp.MustCompile(`^'(.*)'$`)
)

// SimplifiedType maps a native Derby type to a logical type. smallint is how
// Derby stores booleans and real is a float; the rest follows the ORM's
// generic mapping.
func SimplifiedType(fieldType string) string {
	t := strings.ToLower(fieldType)
	switch {
	case strings.Contains(t, "smallint"):
		return TypeBoolean
	case strings.Contains(t, "real"):
		return TypeFloat
	case strings.Contains(t, "int"):
		return TypeInteger
	case strings.Contains(t, "float"), strings.Contains(t, "double"):
		return TypeFloat
	case strings.Contains(t, "decimal"), strings.Contains(t, "numeric"), strings.Contains(t, "number"):
		if m := sqlTypeScale.FindStringSubmatch(t); m != nil && m[1] == "0" {
			return TypeInteger
		}
		return TypeDecimal
	case strings.Contains(t, "datetime"):
		return TypeDatetime
	case strings.Contains(t, "timestamp"):
		return TypeTimestamp
	case strings.Contains(t, "time"):
		return TypeTime
	case strings.Contains(t, "date"):
		return TypeDate
	case strings.Contains(t, "clob"), strings.Contains(t, "text"):
		return TypeText
	case strings.Contains(t, "blob"), strings.Contains(t, "binary"):
		return TypeBinary
	case strings.Contains(t, "char"), strings.Contains(t, "string"):
		return TypeString
	case strings.Contains(t, "boolean"):
		return TypeBoolean
	}
	return ""
}

// DefaultValue post-processes a driver-reported default: Derby returns
// character defaults wrapped in single quotes.
func DefaultValue(value string) string {
	if m := quotedValue.FindStringSubmatch(value); m != nil {
		return m[1]
	}
	return value
}

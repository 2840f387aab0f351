package derby

import (
	"fmt"
	"strings"
)

// Logical column types understood by TypeToSQL.
const (
	TypePrimaryKey = "primary_key"
	TypeString     = "string"
	TypeText       = "text"
	TypeInteger    = "integer"
	TypeFloat      = "float"
	TypeDecimal    = "decimal"
	TypeDatetime   = "datetime"
	TypeTimestamp  = "timestamp"
	TypeTime       = "time"
	TypeDate       = "date"
	TypeBinary     = "binary"
	TypeBoolean    = "boolean"
)

// NativeType is the Derby rendering of a logical type.
type NativeType struct {
	Name      string
	Limit     *int
	Precision *int
	Scale     *int
}

// NativeTypes maps logical type names to their Derby rendering.
type NativeTypes map[string]NativeType

// DefaultNativeTypes returns Derby's type table.
func DefaultNativeTypes() NativeTypes {
	return NativeTypes{
		TypePrimaryKey: {Name: "int generated by default as identity NOT NULL PRIMARY KEY"},
		TypeString:     {Name: "varchar", Limit: Int(256)},
		TypeText:       {Name: "clob"},
		TypeInteger:    {Name: "integer"},
		TypeFloat:      {Name: "float"},
		TypeDecimal:    {Name: "decimal"},
		TypeDatetime:   {Name: "timestamp"},
		TypeTimestamp:  {Name: "timestamp"},
		TypeTime:       {Name: "time"},
		TypeDate:       {Name: "date"},
		TypeBinary:     {Name: "blob"},
		TypeBoolean:    {Name: "smallint"},
	}
}

// merge returns a copy of t with overrides applied. Integers never carry a limit.
func (t NativeTypes) merge(overrides NativeTypes) NativeTypes {
	out := make(NativeTypes, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		out[strings.ToLower(k)] = v
	}
	if it, ok := out[TypeInteger]; ok {
		it.Limit = nil
		out[TypeInteger] = it
	}
	return out
}

// NativeDatabaseTypes returns a copy of the adapter's type table.
func (a *Adapter) NativeDatabaseTypes() NativeTypes {
	return a.types.merge(nil)
}

// TypeToSQL renders a logical column type as Derby SQL.
//
// Integers cannot specify a limit in Derby; any limit given is ignored.
// Unknown types are returned verbatim.
func (a *Adapter) TypeToSQL(typ string, limit, precision, scale *int) (string, error) {
	key := strings.ToLower(typ)
	native, ok := a.types[key]
	if !ok {
		return typ, nil
	}

	switch key {
	case TypeInteger:
		return native.Name, nil
	case TypeDecimal:
		if scale == nil {
			scale = native.Scale
		}
		if precision == nil {
			precision = native.Precision
		}
		switch {
		case precision != nil && scale != nil:
			return fmt.Sprintf("%s(%d,%d)", native.Name, *precision, *scale), nil
		case precision != nil:
			return fmt.Sprintf("%s(%d)", native.Name, *precision), nil
		case scale != nil:
			return "", ErrDecimalPrecision
		}
		return native.Name, nil
	}

	if limit == nil {
		limit = native.Limit
	}
	if limit != nil {
		return fmt.Sprintf("%s(%d)", native.Name, *limit), nil
	}
	return native.Name, nil
}

// Int returns a pointer to n, for optional sizes.
func Int(n int) *int {
	return &n
}

// Bool returns a pointer to b, for optional nullability.
func Bool(b bool) *bool {
	return &b
}

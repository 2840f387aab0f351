package derby

import (
	"context"
	"strings"
)

// sizeable types are dumped with an explicit (size).
var sizeable = map[string]bool{"VARCHAR": true, "CLOB": true, "BLOB": true}

// StructureDump renders a CREATE TABLE statement for every table of the
// adapter's schema. Identity columns get their GENERATED ... AS IDENTITY
// clause back from the system catalog; other defaults are emitted verbatim.
func (a *Adapter) StructureDump(ctx context.Context) (string, error) {
	tables, err := a.Tables(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, name := range tables {
		ts, err := a.TableSchema(ctx, name)
		if err != nil {
			return "", err
		}
		b.WriteString("CREATE TABLE " + name + " (\n")
		for i, col := range ts.Columns {
			def, err := a.dumpColumn(ctx, name, col)
			if err != nil {
				return "", err
			}
			if i > 0 {
				b.WriteString(",\n ")
			} else {
				b.WriteString(" ")
			}
			b.WriteString(def)
		}
		b.WriteString(");\n\n")
	}
	return b.String(), nil
}

func (a *Adapter) dumpColumn(ctx context.Context, table string, col ColumnMeta) (string, error) {
	var b strings.Builder
	b.WriteString(addQuotes(expandDoubleQuotes(col.Name)))
	b.WriteString(" ")
	b.WriteString(col.TypeName)
	if sizeable[col.TypeName] {
		b.WriteString("(" + col.Size + ")")
	}
	if !col.Nullable {
		b.WriteString(" NOT NULL")
	}

	switch {
	case col.Default.Valid && strings.HasPrefix(col.Default.String, "GENERATED_"):
		clause, err := a.autoIncrementClause(ctx, table, addQuotes(col.Name))
		if err != nil {
			return "", err
		}
		b.WriteString(clause)
	case col.Default.Valid:
		b.WriteString(" DEFAULT " + col.Default.String)
	}
	return b.String(), nil
}

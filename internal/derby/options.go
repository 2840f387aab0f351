package derby

// ColumnOptions is the option bag the ORM passes with column DDL.
type ColumnOptions struct {
	Limit     *int
	Precision *int
	Scale     *int
	// Null is nil when nullability was not requested.
	Null *bool
	// Default is only meaningful when HasDefault is set; a nil Default with
	// HasDefault set is an explicit "default: nil".
	Default    any
	HasDefault bool
}

// WithDefault returns a copy of o with a default value set.
func (o ColumnOptions) WithDefault(v any) ColumnOptions {
	o.Default = v
	o.HasDefault = true
	return o
}

// AddColumnOptions appends the DEFAULT and NOT NULL clauses of opts to sql.
//
// Derby mishandles "DEFAULT NULL" and a bare "NULL", so an explicit nil default
// and a null: true (or nil) request are dropped before rendering.
func (a *Adapter) AddColumnOptions(sql string, opts ColumnOptions) string {
	if opts.HasDefault && opts.Default == nil {
		opts.HasDefault = false
	}
	if opts.Null != nil && *opts.Null {
		opts.Null = nil
	}
	if opts.HasDefault {
		sql += " DEFAULT " + a.Quote(opts.Default, nil)
	}
	if opts.Null != nil && !*opts.Null {
		sql += " NOT NULL"
	}
	return sql
}

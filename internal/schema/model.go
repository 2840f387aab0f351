package schema

type Table struct {
	Name         string
	Columns      []*Column
	ForeignKeys  []*ForeignKey
	Dependencies []string // tables this one references, for ordering
}

type Column struct {
	Name       string
	DataType   string // Derby logical type (derby.Type*)
	SourceType string // vendor type as reported by the source catalog
	Length     int    // character length; -1 for unbounded (MAX)
	Precision  int
	Scale      int
	IsNullable bool
	IsPK       bool
	IsAutoInc  bool
	IsUnique   bool
}

type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// PrimaryKey returns the key columns in declaration order.
func (t *Table) PrimaryKey() []*Column {
	var pk []*Column
	for _, c := range t.Columns {
		if c.IsPK {
			pk = append(pk, c)
		}
	}
	return pk
}

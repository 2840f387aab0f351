package dialect

// Dialect abstracts how a source database exposes its schema and rows to the
// port command. Every metadata query binds the schema name as its only argument.
type Dialect interface {
	Name() string

	// Metadata Queries (Schema Introspection)
	GetTablesQuery() string
	// GetColumnsQuery yields TABLE_NAME, COLUMN_NAME, DATA_TYPE, CHAR_LENGTH,
	// NUMERIC_PRECISION, NUMERIC_SCALE, IS_NULLABLE, COLUMN_KEY, EXTRA, IS_UNIQUE.
	GetColumnsQuery() string
	// GetForeignKeysQuery yields TABLE_NAME, CONSTRAINT_NAME, COLUMN_NAME, REF_TABLE, REF_COLUMN.
	GetForeignKeysQuery() string

	// Row Access
	QuoteIdentifier(name string) string
	GetLimitRowQuery(query string, limit int) string

	// Helpers
	NormalizeType(sqlType string) string // vendor type -> Derby logical type
	GetSchemaName(input string) string
}

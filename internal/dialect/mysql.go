package dialect

import (
	"fmt"
	"strings"

	"derby-shim/internal/derby"
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string { return "mysql" }

func (d *MysqlDialect) GetTablesQuery() string {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'`
}

func (d *MysqlDialect) GetColumnsQuery() string {
	return `SELECT TABLE_NAME, COLUMN_NAME, DATA_TYPE, CHARACTER_MAXIMUM_LENGTH, NUMERIC_PRECISION, NUMERIC_SCALE, IS_NULLABLE, COLUMN_KEY, EXTRA, IF(COLUMN_KEY='UNI', 'UNIQUE', NULL) AS IS_UNIQUE FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? ORDER BY TABLE_NAME, ORDINAL_POSITION`
}

func (d *MysqlDialect) GetForeignKeysQuery() string {
	return `SELECT TABLE_NAME, CONSTRAINT_NAME, COLUMN_NAME, REFERENCED_TABLE_NAME, REFERENCED_COLUMN_NAME FROM information_schema.KEY_COLUMN_USAGE WHERE TABLE_SCHEMA = ? AND REFERENCED_TABLE_NAME IS NOT NULL`
}

func (d *MysqlDialect) QuoteIdentifier(name string) string {
	return quoteWith(name, "`", "`")
}

func (d *MysqlDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	switch strings.ToLower(sqlType) {
	case "bit":
		return derby.TypeBoolean
	case "year":
		return derby.TypeInteger
	case "enum", "set":
		return derby.TypeString
	case "tinytext", "mediumtext", "longtext":
		return derby.TypeText
	case "tinyblob", "mediumblob", "longblob", "varbinary":
		return derby.TypeBinary
	}
	return LogicalType(sqlType)
}

// GetSchemaName returns input as is; an empty name is resolved from the DSN by the caller.
func (d *MysqlDialect) GetSchemaName(input string) string {
	return input
}

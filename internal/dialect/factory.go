package dialect

import (
	"fmt"
	"strings"
)

// UnknownDriverError is returned by GetDialect for a driver with no source dialect.
type UnknownDriverError struct {
	Driver    string
	Available []string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown source driver %q (available: %s)", e.Driver, strings.Join(e.Available, ", "))
}

// Drivers lists the database/sql driver names GetDialect accepts.
func Drivers() []string {
	return []string{"mssql", "mysql", "oracle", "postgres", "sqlserver"}
}

// GetDialect returns the Dialect for a database/sql driver name.
func GetDialect(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "postgres":
		return &PostgresDialect{}, nil
	case "sqlserver", "mssql":
		return &MSSQLDialect{}, nil
	case "oracle":
		return &OracleDialect{}, nil
	case "mysql":
		return &MysqlDialect{}, nil
	}
	return nil, &UnknownDriverError{Driver: driver, Available: Drivers()}
}

// Ensure interface implementation
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)

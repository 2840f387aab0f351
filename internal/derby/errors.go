package derby

import "errors"

var (
	// ErrNoConnection is returned by reads issued against a Script.
	ErrNoConnection = errors.New("derby: no database connection (dry run)")

	// ErrDecimalPrecision is returned when a decimal scale is given without a precision.
	ErrDecimalPrecision = errors.New("derby: decimal precision cannot be empty if scale is specified")

	// ErrNoPrimaryKey is returned when an operation needs exactly one primary-key
	// column, or when that column is missing from a result.
	ErrNoPrimaryKey = errors.New("derby: table has no single-column primary key")
)

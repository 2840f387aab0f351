package derby

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reservedColumn = regexp.MustCompile(`(?i)^(references|integer|key|group|year)$`)
	hasUpper       = regexp.MustCompile(`[A-Z]`)
	hasLower       = regexp.MustCompile(`[a-z]`)
	spaceOrHyphen  = regexp.MustCompile(`[\s-]`)
	leadingDigit   = regexp.MustCompile(`^[_\d]`)
	quotedString   = regexp.MustCompile(`^(["']).*(["'])$`)

	// decimalNumber is a Derby numeric literal: no hex, NaN or infinities.
	decimalNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
)

// QuoteColumnName quotes an identifier only where Derby needs it. The checks
// run in a fixed order and are not mutually exclusive:
//
//  1. a reserved word (case-insensitive) is upper-cased and quoted
//  2. a mixed-case name is quoted as is
//  3. a name with whitespace or a hyphen is upper-cased and quoted
//  4. a name starting with a digit or underscore is upper-cased and quoted
//
// Anything else is returned unchanged.
func (a *Adapter) QuoteColumnName(name string) string {
	return QuoteColumnName(name)
}

// QuoteColumnName is the package-level form of Adapter.QuoteColumnName.
func QuoteColumnName(name string) string {
	switch {
	case reservedColumn.MatchString(name):
		return addQuotes(strings.ToUpper(name))
	case hasUpper.MatchString(name) && hasLower.MatchString(name):
		return addQuotes(name)
	case spaceOrHyphen.MatchString(name):
		return addQuotes(strings.ToUpper(name))
	case leadingDigit.MatchString(name):
		return addQuotes(strings.ToUpper(name))
	}
	return name
}

// QuoteTableName quotes each dot-separated part of a table reference.
func (a *Adapter) QuoteTableName(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = QuoteColumnName(p)
	}
	return strings.Join(parts, ".")
}

// QuotedTrue is Derby's literal for true; booleans are stored as smallint.
func (a *Adapter) QuotedTrue() string { return "1" }

// QuotedFalse is Derby's literal for false.
func (a *Adapter) QuotedFalse() string { return "0" }

// Quote renders value as a Derby literal. When col is given, string values
// headed for numeric columns are emitted as bare numbers, because Derby will
// not compare a CHAR value to a numeric column.
func (a *Adapter) Quote(value any, col *Column) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return a.QuotedTrue()
		}
		return a.QuotedFalse()
	case string:
		if col != nil && col.numeric() {
			if n, ok := numericLiteral(v); ok {
				return n
			}
		}
		return quoteString(v)
	case []byte:
		if col != nil && col.Type == TypeBinary {
			return "X'" + strings.ToUpper(hex.EncodeToString(v)) + "'"
		}
		return a.Quote(string(v), col)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		if col != nil {
			switch col.Type {
			case TypeDate:
				return quoteString(v.Format("2006-01-02"))
			case TypeTime:
				return quoteString(v.Format("15:04:05"))
			}
		}
		return quoteString(v.Format("2006-01-02 15:04:05"))
	case fmt.Stringer:
		return quoteString(v.String())
	}
	return quoteString(fmt.Sprint(value))
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func numericLiteral(s string) (string, bool) {
	t := strings.TrimSpace(s)
	if decimalNumber.MatchString(t) {
		return t, true
	}
	return "", false
}

func addQuotes(name string) string {
	return `"` + name + `"`
}

// stripQuotes removes one matching pair of surrounding single or double quotes.
func stripQuotes(s string) string {
	m := quotedString.FindStringSubmatch(s)
	if m == nil || m[1] != m[2] || len(s) < 2 {
		return s
	}
	return s[1 : len(s)-1]
}

func expandDoubleQuotes(name string) string {
	return strings.ReplaceAll(name, `"`, `""`)
}

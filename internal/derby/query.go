package derby

import (
	"fmt"
	"strings"
)

// Distinct builds the DISTINCT clause for a query that is also ordered.
//
// Derby requires every ORDER BY expression in the select list of a DISTINCT
// query, so each ORDER BY term (minus ASC/DESC) is appended as alias_<n>:
//
//	Distinct("posts.id", "posts.created_at desc")
//	// DISTINCT posts.id, posts.created_at AS alias_0
func (a *Adapter) Distinct(columns, orderBy string) string {
	if strings.TrimSpace(orderBy) == "" {
		return "DISTINCT " + columns
	}

	var terms []string
	for _, part := range strings.Split(orderBy, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		terms = append(terms, fmt.Sprintf("%s AS alias_%d", fields[0], len(terms)))
	}
	if len(terms) == 0 {
		return "DISTINCT " + columns
	}
	return "DISTINCT " + columns + ", " + strings.Join(terms, ", ")
}

// LimitOffset carries pagination options; nil means not requested.
type LimitOffset struct {
	Limit  *int
	Offset *int
}

// AddLimitOffset appends Derby pagination to sql. OFFSET must precede
// FETCH FIRST in Derby's grammar.
func (a *Adapter) AddLimitOffset(sql string, opts LimitOffset) string {
	if opts.Offset != nil {
		sql += fmt.Sprintf(" OFFSET %d ROWS", *opts.Offset)
	}
	if opts.Limit != nil {
		sql += fmt.Sprintf(" FETCH FIRST %d ROWS ONLY", *opts.Limit)
	}
	return sql
}

package derby

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistinct(t *testing.T) {
	tests := []struct {
		name     string
		columns  string
		orderBy  string
		expected string
	}{
		{name: "no order by", columns: "a,b", orderBy: "", expected: "DISTINCT a,b"},
		{name: "blank order by", columns: "a", orderBy: "   ", expected: "DISTINCT a"},
		{name: "two terms", columns: "a", orderBy: "x desc, y", expected: "DISTINCT a, x AS alias_0, y AS alias_1"},
		{name: "qualified with asc", columns: "posts.id", orderBy: "posts.created_at ASC", expected: "DISTINCT posts.id, posts.created_at AS alias_0"},
		{name: "empty terms dropped", columns: "a", orderBy: "x,, y DESC", expected: "DISTINCT a, x AS alias_0, y AS alias_1"},
		{name: "only separators", columns: "a", orderBy: " , ", expected: "DISTINCT a"},
	}

	a := New(&Script{}, Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, a.Distinct(tt.columns, tt.orderBy))
		})
	}
}

func TestAddLimitOffset(t *testing.T) {
	tests := []struct {
		name     string
		opts     LimitOffset
		expected string
	}{
		{name: "none", opts: LimitOffset{}, expected: "SELECT * FROM t"},
		{name: "limit only", opts: LimitOffset{Limit: Int(10)}, expected: "SELECT * FROM t FETCH FIRST 10 ROWS ONLY"},
		{name: "offset only", opts: LimitOffset{Offset: Int(5)}, expected: "SELECT * FROM t OFFSET 5 ROWS"},
		{name: "offset zero is emitted", opts: LimitOffset{Offset: Int(0)}, expected: "SELECT * FROM t OFFSET 0 ROWS"},
		{name: "offset precedes fetch", opts: LimitOffset{Offset: Int(5), Limit: Int(10)}, expected: "SELECT * FROM t OFFSET 5 ROWS FETCH FIRST 10 ROWS ONLY"},
	}

	a := New(&Script{}, Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, a.AddLimitOffset("SELECT * FROM t", tt.opts))
		})
	}
}

func TestAddColumnOptions(t *testing.T) {
	tests := []struct {
		name     string
		opts     ColumnOptions
		expected string
	}{
		{name: "nothing", opts: ColumnOptions{}, expected: "c"},
		{name: "explicit nil default dropped", opts: ColumnOptions{}.WithDefault(nil), expected: "c"},
		{name: "null true dropped", opts: ColumnOptions{Null: Bool(true)}, expected: "c"},
		{name: "nil default and null true", opts: ColumnOptions{Null: Bool(true)}.WithDefault(nil), expected: "c"},
		{name: "not null", opts: ColumnOptions{Null: Bool(false)}, expected: "c NOT NULL"},
		{name: "string default", opts: ColumnOptions{}.WithDefault("n/a"), expected: "c DEFAULT 'n/a'"},
		{name: "boolean default", opts: ColumnOptions{}.WithDefault(true), expected: "c DEFAULT 1"},
		{name: "default then not null", opts: ColumnOptions{Null: Bool(false)}.WithDefault(0), expected: "c DEFAULT 0 NOT NULL"},
	}

	a := New(&Script{}, Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, a.AddColumnOptions("c", tt.opts))
		})
	}
}

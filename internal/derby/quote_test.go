package derby

import (
	"regexp"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
)

func TestQuoteColumnName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain lower", input: "title", expected: "title"},
		{name: "plain upper", input: "TITLE", expected: "TITLE"},
		{name: "reserved word", input: "references", expected: `"REFERENCES"`},
		{name: "reserved word upper", input: "GROUP", expected: `"GROUP"`},
		{name: "reserved wins over mixed case", input: "Key", expected: `"KEY"`},
		{name: "mixed case kept", input: "firstName", expected: `"firstName"`},
		{name: "whitespace", input: "first name", expected: `"FIRST NAME"`},
		{name: "hyphen", input: "first-name", expected: `"FIRST-NAME"`},
		{name: "mixed case with space stays mixed", input: "First name", expected: `"First name"`},
		{name: "leading underscore", input: "_private", expected: `"_PRIVATE"`},
		{name: "leading digit", input: "1st_place", expected: `"1ST_PLACE"`},
		{name: "underscore inside", input: "created_at", expected: "created_at"},
	}

	a := New(&Script{}, Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, a.QuoteColumnName(tt.input))
		})
	}
}

func TestQuoteColumnName_MixedCaseIsQuotedUnchanged(t *testing.T) {
	faker := gofakeit.New(20240611)
	lowerWord := regexp.MustCompile(`^[a-z]{2,}$`)

	checked := 0
	for checked < 200 {
		w := faker.Word()
		if !lowerWord.MatchString(w) || reservedColumn.MatchString(w) {
			continue
		}
		mixed := string(w[0]-'a'+'A') + w[1:]
		assert.Equal(t, `"`+mixed+`"`, QuoteColumnName(mixed), "name %q", mixed)
		checked++
	}
}

func TestQuoteColumnName_ReservedIsUpperCased(t *testing.T) {
	for _, w := range []string{"references", "Integer", "kEy", "GROUP", "year"} {
		assert.Regexp(t, `^"[A-Z]+"$`, QuoteColumnName(w), w)
	}
}

func TestQuoteTableName(t *testing.T) {
	a := New(&Script{}, Config{})
	assert.Equal(t, "users", a.QuoteTableName("users"))
	assert.Equal(t, `app."Users"`, a.QuoteTableName("app.Users"))
}

func TestQuote(t *testing.T) {
	a := New(&Script{}, Config{})
	intCol := &Column{Name: "id", Type: TypeInteger}
	dateCol := &Column{Name: "born_on", Type: TypeDate}
	blobCol := &Column{Name: "data", Type: TypeBinary}
	day := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)

	tests := []struct {
		name     string
		value    any
		col      *Column
		expected string
	}{
		{name: "nil", value: nil, expected: "NULL"},
		{name: "true", value: true, expected: "1"},
		{name: "false", value: false, expected: "0"},
		{name: "string", value: "it's", expected: "'it''s'"},
		{name: "numeric string for integer column", value: " 42 ", col: intCol, expected: "42"},
		{name: "non numeric string for integer column", value: "abc", col: intCol, expected: "'abc'"},
		{name: "numeric string without column", value: "42", expected: "'42'"},
		{name: "decimal string for integer column", value: "-1.25e3", col: intCol, expected: "-1.25e3"},
		{name: "NaN string stays quoted", value: "NaN", col: intCol, expected: "'NaN'"},
		{name: "Inf string stays quoted", value: "Inf", col: intCol, expected: "'Inf'"},
		{name: "hex float stays quoted", value: "0x1p-2", col: intCol, expected: "'0x1p-2'"},
		{name: "underscored digits stay quoted", value: "1_000", col: intCol, expected: "'1_000'"},
		{name: "int", value: 7, expected: "7"},
		{name: "int64", value: int64(-3), expected: "-3"},
		{name: "float", value: 1.5, expected: "1.5"},
		{name: "bytes as binary", value: []byte{0xca, 0xfe}, col: blobCol, expected: "X'CAFE'"},
		{name: "bytes as text", value: []byte("12"), col: intCol, expected: "12"},
		{name: "timestamp", value: day, expected: "'2021-03-04 05:06:07'"},
		{name: "date", value: day, col: dateCol, expected: "'2021-03-04'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, a.Quote(tt.value, tt.col))
		})
	}
}

func TestStripQuotes(t *testing.T) {
	assert.Equal(t, "name", stripQuotes(`"name"`))
	assert.Equal(t, "name", stripQuotes(`'name'`))
	assert.Equal(t, `"name'`, stripQuotes(`"name'`))
	assert.Equal(t, "name", stripQuotes("name"))
	assert.Equal(t, `"`, stripQuotes(`"`))
}

func TestExpandDoubleQuotes(t *testing.T) {
	assert.Equal(t, `say ""hi""`, expandDoubleQuotes(`say "hi"`))
	assert.Equal(t, "plain", expandDoubleQuotes("plain"))
}

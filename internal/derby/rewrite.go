package derby

import "strings"

// RewriteNullComparisons turns "= NULL" into "IS NULL" so Derby evaluates
// NULL the way the ORM expects.
//
// UPDATE and INSERT statements are only rewritten from their WHERE keyword
// onward, where "!= NULL" and "<> NULL" also become "IS NOT NULL"; an
// assignment such as "SET x = NULL" must survive. Every other statement has
// "= NULL" rewritten throughout. The asymmetry is inherited from the ORM
// adapters this one replaces.
//
// The rewrite works on tokens, so string literals, quoted identifiers and
// comments are never touched.
func RewriteNullComparisons(stmt string) string {
	toks := tokenize(stmt)
	if len(toks) == 0 {
		return stmt
	}

	var changed bool
	switch leadingKeyword(toks) {
	case "UPDATE", "INSERT":
		where := -1
		for i, t := range toks {
			if t.kind == tokWord && strings.EqualFold(t.text, "WHERE") {
				where = i
				break
			}
		}
		if where < 0 {
			return stmt
		}
		toks, changed = rewriteFrom(toks, where, true)
	default:
		toks, changed = rewriteFrom(toks, 0, false)
	}
	if !changed {
		return stmt
	}

	var b strings.Builder
	b.Grow(len(stmt) + 8)
	for _, t := range toks {
		b.WriteString(t.text)
	}
	return b.String()
}

func leadingKeyword(toks []token) string {
	for _, t := range toks {
		switch t.kind {
		case tokSpace, tokComment:
			continue
		case tokWord:
			return strings.ToUpper(t.text)
		}
		return ""
	}
	return ""
}

// rewriteFrom rewrites comparison-with-NULL operators at or after start.
// notEqual also rewrites "!=" and "<>".
func rewriteFrom(toks []token, start int, notEqual bool) ([]token, bool) {
	out := make([]token, 0, len(toks))
	out = append(out, toks[:start]...)
	changed := false

	for i := start; i < len(toks); i++ {
		t := toks[i]
		var repl string
		if t.kind == tokOp {
			switch {
			case t.text == "=":
				repl = "IS NULL"
			case notEqual && (t.text == "!=" || t.text == "<>"):
				repl = "IS NOT NULL"
			}
		}
		if repl == "" {
			out = append(out, t)
			continue
		}

		j := i + 1
		for j < len(toks) && toks[j].kind == tokSpace {
			j++
		}
		if j >= len(toks) || toks[j].kind != tokWord || !strings.EqualFold(toks[j].text, "NULL") {
			out = append(out, t)
			continue
		}

		if n := len(out); n > 0 && out[n-1].kind != tokSpace {
			out = append(out, token{kind: tokSpace, text: " "})
		}
		out = append(out, token{kind: tokWord, text: repl})
		changed = true
		i = j
	}
	return out, changed
}

type tokenKind int

const (
	tokWord tokenKind = iota
	tokSpace
	tokComment
	tokLiteral
	tokOp
	tokOther
)

type token struct {
	kind tokenKind
	text string
}

// tokenize splits SQL text into the minimal token classes the rewrite needs.
// Concatenating the tokens yields the input unchanged.
func tokenize(s string) []token {
	var toks []token
	pos := 0
	for pos < len(s) {
		start := pos
		ch := s[pos]
		var kind tokenKind

		switch {
		case isSpace(ch):
			for pos < len(s) && isSpace(s[pos]) {
				pos++
			}
			kind = tokSpace
		case ch == '-' && peek(s, pos+1) == '-':
			for pos < len(s) && s[pos] != '\n' {
				pos++
			}
			kind = tokComment
		case ch == '/' && peek(s, pos+1) == '*':
			end := strings.Index(s[pos+2:], "*/")
			if end < 0 {
				pos = len(s)
			} else {
				pos += end + 4
			}
			kind = tokComment
		case ch == '\'' || ch == '"':
			pos = scanQuoted(s, pos, ch)
			kind = tokLiteral
		case isWordByte(ch):
			for pos < len(s) && isWordByte(s[pos]) {
				pos++
			}
			kind = tokWord
		case ch == '=':
			pos++
			kind = tokOp
		case (ch == '!' || ch == '<' || ch == '>') && peek(s, pos+1) == '=', ch == '<' && peek(s, pos+1) == '>':
			pos += 2
			kind = tokOp
		default:
			pos++
			kind = tokOther
		}
		toks = append(toks, token{kind: kind, text: s[start:pos]})
	}
	return toks
}

// scanQuoted returns the position after the literal opened at pos.
// A doubled quote inside the literal is an escaped quote.
func scanQuoted(s string, pos int, q byte) int {
	pos++
	for pos < len(s) {
		if s[pos] == q {
			if peek(s, pos+1) == q {
				pos += 2
				continue
			}
			return pos + 1
		}
		pos++
	}
	return pos
}

func peek(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isWordByte(ch byte) bool {
	return ch == '_' || ch == '$' || ch == '.' ||
		('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ('0' <= ch && ch <= '9') ||
		ch >= 0x80
}

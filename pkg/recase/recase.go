// Package recase rewrites record keys from snake_case to camelCase.
//
// Values are never inspected or copied deeply: a nested record stays
// exactly as it was, keys included.
package recase

import (
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/sqlscript/pkg/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.Und)

// SnakeToCamel converts a snake_case identifier to camelCase.
//
// The segment before the first underscore is kept verbatim. Every later
// non-empty segment has its first rune upper-cased; empty segments vanish.
// A string without underscores is returned unchanged.
func SnakeToCamel(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}

	segments := strings.Split(s, "_")
	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(segments[0])
	for _, seg := range segments[1:] {
		if seg == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(seg)
		if r == utf8.RuneError && size <= 1 {
			b.WriteString(seg)
			continue
		}
		b.WriteString(upper.String(string(r)))
		b.WriteString(seg[size:])
	}
	return b.String()
}

// Keys returns a new record with every key passed through SnakeToCamel.
// The input is left untouched. When two keys map to the same result,
// the later value wins and the key keeps the position of the first.
func Keys[V any](r *core.Record[V]) *core.Record[V] {
	out := core.NewRecord[V](r.Len())
	for k, v := range r.All() {
		out.Set(SnakeToCamel(k), v)
	}
	return out
}

// Rows recases every row of a result. Nil rows stay nil.
func Rows(rows []*core.Row) []*core.Row {
	if rows == nil {
		return nil
	}
	out := make([]*core.Row, len(rows))
	for i, r := range rows {
		if r != nil {
			out[i] = Keys(r)
		}
	}
	return out
}

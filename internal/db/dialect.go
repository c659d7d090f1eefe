package db

import (
	"strconv"
	"strings"
)

// Dialect is the bind-parameter style of a driver. Queries are written with
// '?' placeholders and rebound once at construction time.
type Dialect int

const (
	DialectQuestion Dialect = iota // sqlite3
	DialectDollar                  // postgres: $1, $2, ...
)

func DialectFor(driver string) Dialect {
	if driver == "postgres" {
		return DialectDollar
	}
	return DialectQuestion
}

// Rebind rewrites '?' placeholders outside of quoted literals.
func (d Dialect) Rebind(query string) string {
	if d == DialectQuestion {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	var quote rune
	for _, r := range query {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

package repositories

import (
	"strconv"
	"strings"
)

// Dialect selects the placeholder style of the SQL driver.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// DialectFor picks Postgres for postgres:// URLs and SQLite otherwise.
func DialectFor(databaseURL string) Dialect {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return Postgres
	}
	return SQLite
}

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// rebind rewrites ? placeholders to $1..$n for Postgres.
// Queries in this package never contain literal question marks.
func (d Dialect) rebind(q string) string {
	if d != Postgres {
		return q
	}

	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r != '?' {
			b.WriteRune(r)
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

package repository

import (
	"strconv"
	"strings"

	"github.com/okian/trackload/internal/config"
)

// dialect captures the differences between the supported SQL backends.
type dialect struct {
	driverName  string // database/sql driver registered by the import
	placeholder func(n int) string
	pragmas     []string
}

func dialectFor(driver string) (dialect, bool) {
	switch driver {
	case config.DriverSQLite:
		return dialect{
			driverName:  "sqlite",
			placeholder: func(int) string { return "?" },
			pragmas: []string{
				"PRAGMA journal_mode = WAL",
				"PRAGMA foreign_keys = ON",
				"PRAGMA busy_timeout = 5000",
			},
		}, true
	case config.DriverPostgres:
		return dialect{
			driverName:  "pgx",
			placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		}, true
	default:
		return dialect{}, false
	}
}

// rebind rewrites ? placeholders for the backend. Queries never contain a
// literal question mark.
func (d dialect) rebind(query string) string {
	if d.driverName == "sqlite" {
		return query
	}
	var (
		b strings.Builder
		n int
	)
	b.Grow(len(query) + 8)
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(d.placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

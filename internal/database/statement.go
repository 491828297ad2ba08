package database

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Statement is a SQL text with `?` placeholders and the arguments bound to them.
//
// Values never appear in SQL itself; every driver receives them as bound
// parameters. Literal renders the interpolated form for logs and assertions.
type Statement struct {
	SQL  string
	Args []any
}

// NewStatement builds a Statement.
func NewStatement(sql string, args ...any) Statement {
	return Statement{SQL: sql, Args: args}
}

// Literal renders the statement with its arguments interpolated, e.g.
//
//	DELETE FROM spaces WHERE id = 1
//
// The result is for humans only and is never sent to a database.
func (s Statement) Literal() string {
	var b strings.Builder
	argIdx := 0
	for _, r := range s.SQL {
		if r == '?' && argIdx < len(s.Args) {
			b.WriteString(literalValue(s.Args[argIdx]))
			argIdx++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s Statement) String() string {
	return s.Literal()
}

func literalValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quote(val)
	case []byte:
		return quote(string(val))
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return quote(val.Format(time.RFC3339Nano))
	case fmt.Stringer:
		return quote(val.String())
	default:
		return quote(fmt.Sprintf("%v", val))
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// rebindDollar rewrites `?` placeholders into Postgres `$1, $2, ...` form.
func rebindDollar(sql string) string {
	if !strings.Contains(sql, "?") {
		return sql
	}

	var b strings.Builder
	b.Grow(len(sql) + 8)
	n := 0
	for _, r := range sql {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

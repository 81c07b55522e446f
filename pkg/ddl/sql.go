package ddl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Statement is a single schema or data statement.
type Statement interface {
	// SQL renders the statement without a trailing semicolon.
	SQL() string

	// Transactional reports whether PostgreSQL accepts the statement inside a
	// transaction block.
	Transactional() bool
}

// Sqlf formats SQL with automatic dedenting and blank line removal.
// The SQL shape is visible in the format string.
func Sqlf(format string, args ...any) string {
	s := fmt.Sprintf(format, args...)
	lines := strings.Split(s, "\n")

	// Find minimum indentation (ignoring empty lines)
	minIndent := 1000
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if indent < minIndent {
			minIndent = indent
		}
	}

	// Remove common indent and empty lines
	var result []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(line) >= minIndent {
			result = append(result, line[minIndent:])
		} else {
			result = append(result, strings.TrimLeft(line, " \t"))
		}
	}

	return strings.Join(result, "\n")
}

// Optf returns formatted string if condition is true, empty string otherwise.
// Useful for optional SQL clauses.
func Optf(cond bool, format string, args ...any) string {
	if !cond {
		return ""
	}
	return fmt.Sprintf(format, args...)
}

var plainIdent = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// reservedWords lists keywords that cannot appear unquoted as table or
// column names. Only words plausible as identifiers are listed.
var reservedWords = map[string]bool{
	"all": true, "and": true, "as": true, "asc": true, "both": true,
	"case": true, "cast": true, "check": true, "column": true, "constraint": true,
	"create": true, "default": true, "desc": true, "do": true, "else": true,
	"end": true, "foreign": true, "from": true, "grant": true, "group": true,
	"having": true, "in": true, "into": true, "limit": true, "not": true,
	"null": true, "offset": true, "on": true, "only": true, "or": true,
	"order": true, "primary": true, "references": true, "select": true, "table": true,
	"then": true, "to": true, "union": true, "unique": true, "user": true,
	"when": true, "where": true, "window": true, "with": true,
}

// Ident renders an identifier, quoting it only when PostgreSQL requires it.
func Ident(name string) string {
	if plainIdent.MatchString(name) && !reservedWords[name] {
		return name
	}
	return pq.QuoteIdentifier(name)
}

func identList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = Ident(n)
	}
	return strings.Join(quoted, ", ")
}

// Expr is a raw SQL expression used as a literal value (for example now()).
type Expr string

// Literal renders a Go value as a SQL literal.
// Strings are quoted, nil becomes NULL and Expr is passed through verbatim.
func Literal(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case Expr:
		return string(v)
	case string:
		return pq.QuoteLiteral(v)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return pq.QuoteLiteral(fmt.Sprint(v))
	}
}

// Raw is an escape hatch for statements with no structured representation,
// such as data backfills.
type Raw struct {
	Query string

	// NonTransactional marks statements PostgreSQL refuses to run inside a
	// transaction block.
	NonTransactional bool
}

// SQL renders the raw statement.
func (r Raw) SQL() string { return strings.TrimSpace(r.Query) }

// Transactional reports whether the statement may run in a transaction.
func (r Raw) Transactional() bool { return !r.NonTransactional }

package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// Columns selected for every client row, in scan order.
var Columns = []string{"id", "first_name", "last_name", "email", "phones"}

// condition is one optional criterion of the predicate.
type condition struct {
	column     string
	membership bool // column holds a JSON array; test element membership
}

// conditions are in parameter order and line up with Criteria.Args.
var conditions = []condition{
	{column: "first_name"},
	{column: "last_name"},
	{column: "email"},
	{column: "phones", membership: true},
}

var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Predicate is the compiled search predicate for one table.
//
// The SQL is fixed at compile time; only Args vary between calls. Numbered
// parameters let each criterion appear once in the argument list while being
// referenced twice in the SQL (null check and comparison).
type Predicate struct {
	table string
	where string
}

// Compile builds the predicate for table. Panics if table is not a plain SQL
// identifier; table names are program constants, never user input.
func Compile(table string) Predicate {
	if !identRE.MatchString(table) {
		panic(fmt.Sprintf("filter: invalid table name %q", table))
	}

	parts := make([]string, len(conditions))
	for i, cond := range conditions {
		parts[i] = compileCondition(table, cond, i+1)
	}

	return Predicate{
		table: table,
		where: strings.Join(parts, " AND "),
	}
}

// compileCondition renders one optional criterion bound to parameter n.
func compileCondition(table string, cond condition, n int) string {
	param := fmt.Sprintf("?%d", n)
	col := table + "." + cond.column

	if cond.membership {
		return fmt.Sprintf("(%s IS NULL OR EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value = %s))",
			param, col, param)
	}
	return fmt.Sprintf("(%s IS NULL OR %s = %s)", param, col, param)
}

// SQL returns the WHERE clause body.
func (p Predicate) SQL() string { return p.where }

// Select returns the complete search query.
// Rows are ordered by id so results are deterministic.
func (p Predicate) Select() string {
	cols := make([]string, len(Columns))
	for i, c := range Columns {
		cols[i] = p.table + "." + c
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s.id ASC",
		strings.Join(cols, ", "), p.table, p.where, p.table)
}

// Args returns the parameters for c, in the order the predicate expects.
func (p Predicate) Args(c Criteria) []any {
	return c.Args()
}

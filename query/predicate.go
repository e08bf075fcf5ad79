package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nickyhof/GridDB/core"
)

type Operator int

const (
	EqualsOperator Operator = iota
)

func (op Operator) String() string {
	switch op {
	case EqualsOperator:
		return "="
	default:
		return "?"
	}
}

// Condition tests one column of a row. Index is -1 when the column is not
// part of the schema; such a condition never matches.
type Condition struct {
	Index    int
	Column   string
	Operator Operator
	Value    any
}

// Test reports whether the condition holds for row.
func (c Condition) Test(row core.Row) bool {
	if c.Index < 0 {
		return false
	}
	var cell any
	if c.Index < len(row) {
		cell = row[c.Index]
	}
	switch c.Operator {
	case EqualsOperator:
		return core.LooseEqual(cell, c.Value)
	default:
		return false
	}
}

func (c Condition) String() string {
	if c.Index < 0 {
		return "FALSE"
	}
	return fmt.Sprintf("[%d] %s %s", c.Index, c.Operator, quote(core.FormatCell(c.Value)))
}

// Predicate is a conjunction of conditions. An empty predicate matches
// every row.
type Predicate struct {
	Conditions []Condition
}

// Translate builds a predicate from criteria, failing with
// *core.ColumnNotFoundError before any row is looked at when a key is not
// one of columns.
func Translate(criteria core.Criteria, columns []string) (Predicate, error) {
	conditions := make([]Condition, 0, len(criteria))
	for key, value := range criteria {
		index := core.IndexOf(columns, key)
		if index == -1 {
			return Predicate{}, &core.ColumnNotFoundError{Column: key}
		}
		conditions = append(conditions, Condition{Index: index, Column: key, Operator: EqualsOperator, Value: value})
	}
	return newPredicate(conditions), nil
}

// Lenient builds a predicate from criteria where keys missing from columns
// become conditions that never match instead of errors.
func Lenient(criteria core.Criteria, columns []string) Predicate {
	conditions := make([]Condition, 0, len(criteria))
	for key, value := range criteria {
		conditions = append(conditions, Condition{
			Index:    core.IndexOf(columns, key),
			Column:   key,
			Operator: EqualsOperator,
			Value:    value,
		})
	}
	return newPredicate(conditions)
}

func newPredicate(conditions []Condition) Predicate {
	// map iteration order is random; keep rendering deterministic
	sort.Slice(conditions, func(i, j int) bool {
		if conditions[i].Index != conditions[j].Index {
			return conditions[i].Index < conditions[j].Index
		}
		return conditions[i].Column < conditions[j].Column
	})
	return Predicate{Conditions: conditions}
}

// Match reports whether every condition holds for row.
func (p Predicate) Match(row core.Row) bool {
	for _, cond := range p.Conditions {
		if !cond.Test(row) {
			return false
		}
	}
	return true
}

// String renders the predicate as index-addressed equality clauses joined
// by AND, e.g. [1] = 'A' AND [2] = '1'.
func (p Predicate) String() string {
	if len(p.Conditions) == 0 {
		return "TRUE"
	}
	parts := make([]string, len(p.Conditions))
	for i, cond := range p.Conditions {
		parts[i] = cond.String()
	}
	return strings.Join(parts, " AND ")
}

// SQL renders the predicate for a table whose columns are named c0, c1, ...
// Values are bound as text.
func (p Predicate) SQL() (string, []any) {
	if len(p.Conditions) == 0 {
		return "TRUE", nil
	}
	parts := make([]string, len(p.Conditions))
	args := make([]any, 0, len(p.Conditions))
	for i, cond := range p.Conditions {
		if cond.Index < 0 {
			parts[i] = "FALSE"
			continue
		}
		parts[i] = fmt.Sprintf("%s %s ?", columnName(cond.Index), cond.Operator)
		args = append(args, core.FormatCell(cond.Value))
	}
	return strings.Join(parts, " AND "), args
}

// maxIndex returns the largest column index referenced, or -1.
func (p Predicate) maxIndex() int {
	highest := -1
	for _, cond := range p.Conditions {
		if cond.Index > highest {
			highest = cond.Index
		}
	}
	return highest
}

// Query is a predicate with an optional row limit (0 means no limit).
type Query struct {
	Where Predicate
	Limit int
}

func (q Query) String() string {
	s := "SELECT * FROM ? WHERE " + q.Where.String()
	if q.Limit > 0 {
		s += fmt.Sprintf(" LIMIT %d", q.Limit)
	}
	return s
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func columnName(index int) string {
	return fmt.Sprintf(`"c%d"`, index)
}

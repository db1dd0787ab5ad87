package repository

import (
	"strings"

	"github.com/lib/pq"
)

// Predicate is an ordered list of typed filter clauses that renders into a
// SQL fragment with ? placeholders. Clause text and bound arguments stay
// separate, so composition is testable and values never touch the SQL text.
type Predicate struct {
	clauses []string
	args    []any
}

// NewPredicate returns an empty predicate (matches everything).
func NewPredicate() *Predicate {
	return &Predicate{}
}

// NotEquals adds "col <> ?". Used for source-film self-exclusion.
func (p *Predicate) NotEquals(col string, v any) *Predicate {
	p.clauses = append(p.clauses, col+" <> ?")
	p.args = append(p.args, v)
	return p
}

// GTE adds "col >= ?".
func (p *Predicate) GTE(col string, v any) *Predicate {
	p.clauses = append(p.clauses, col+" >= ?")
	p.args = append(p.args, v)
	return p
}

// LTE adds "col <= ?".
func (p *Predicate) LTE(col string, v any) *Predicate {
	p.clauses = append(p.clauses, col+" <= ?")
	p.args = append(p.args, v)
	return p
}

// Overlaps adds "col && ?": the array column shares at least one element
// with vals ("any of" semantics).
func (p *Predicate) Overlaps(col string, vals []string) *Predicate {
	p.clauses = append(p.clauses, col+" && ?")
	p.args = append(p.args, pq.Array(vals))
	return p
}

// NotOverlaps adds "NOT (col && ?)": the array column shares no element
// with vals ("none of" semantics).
func (p *Predicate) NotOverlaps(col string, vals []string) *Predicate {
	p.clauses = append(p.clauses, "NOT ("+col+" && ?)")
	p.args = append(p.args, pq.Array(vals))
	return p
}

// SQL renders the predicate as an " AND c1 AND c2 ..." fragment plus its
// arguments, empty when no clauses were added. The fragment is meant to be
// appended after an existing WHERE clause.
func (p *Predicate) SQL() (string, []any) {
	if len(p.clauses) == 0 {
		return "", nil
	}
	return " AND " + strings.Join(p.clauses, " AND "), p.args
}

// Len reports the number of clauses.
func (p *Predicate) Len() int {
	return len(p.clauses)
}

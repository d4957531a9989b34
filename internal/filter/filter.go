// Package filter implements the boolean term filter a /log request's
// ftr parameters compile into: an ordered list of clauses, each an
// AND or OR over a set of literal byte-substring terms, joined by AND
// at the top level. This replaces the Python original's parallel
// self.operators/self.terms arrays with the tagged-variant
// representation spec.md §9's "Filter AST" note asks for.
package filter

import (
	"bytes"
	"strings"
)

// Op is a clause's boolean operator.
type Op int

// The two supported clause operators.
const (
	OpAnd Op = iota
	OpOr
)

// Clause is one (operator, terms) unit, per spec.md §3.
type Clause struct {
	Op    Op
	Terms [][]byte
}

// Matches reports whether line satisfies this clause in isolation.
// An empty-terms clause is always true (spec.md §4.5: "treated as
// true (defensive)"). AND short-circuits on the first miss, OR on the
// first hit.
func (c Clause) Matches(line []byte) bool {
	if len(c.Terms) == 0 {
		return true
	}
	switch c.Op {
	case OpOr:
		for _, term := range c.Terms {
			if bytes.Contains(line, term) {
				return true
			}
		}
		return false
	default: // OpAnd
		for _, term := range c.Terms {
			if !bytes.Contains(line, term) {
				return false
			}
		}
		return true
	}
}

// Parse compiles the raw ftr query values into a clause list. Each
// raw value has the form "[op|]term1 term2 ...", op in {and, or},
// case-insensitive, defaulting to "and" when the "|" is absent.
// Multiple ftr values are themselves AND-joined at the top level by
// virtue of Match applying every clause.
func Parse(raw []string) []Clause {
	clauses := make([]Clause, 0, len(raw))
	for _, r := range raw {
		op := OpAnd
		termsPart := r
		if idx := strings.IndexByte(r, '|'); idx != -1 {
			if strings.EqualFold(strings.TrimSpace(r[:idx]), "or") {
				op = OpOr
			}
			termsPart = r[idx+1:]
		}

		fields := strings.Fields(termsPart)
		terms := make([][]byte, len(fields))
		for i, f := range fields {
			terms[i] = []byte(f)
		}
		clauses = append(clauses, Clause{Op: op, Terms: terms})
	}
	return clauses
}

// Match reports whether line satisfies every clause (top-level AND).
// An empty clause list always matches.
func Match(line []byte, clauses []Clause) bool {
	for _, c := range clauses {
		if !c.Matches(line) {
			return false
		}
	}
	return true
}

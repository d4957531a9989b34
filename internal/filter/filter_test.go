package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDefaultsToAnd(t *testing.T) {
	clauses := Parse([]string{"custid 41982342 xid ajf033epn35"})
	assert.Len(t, clauses, 1)
	assert.Equal(t, OpAnd, clauses[0].Op)
	assert.Len(t, clauses[0].Terms, 4)
}

func TestParseExplicitOperatorCaseInsensitive(t *testing.T) {
	clauses := Parse([]string{"OR|500 404"})
	assert.Equal(t, OpOr, clauses[0].Op)
}

func TestMatchAndScenario(t *testing.T) {
	clauses := Parse([]string{"and|err code"})
	assert.True(t, Match([]byte("err code 500 x"), clauses))
	assert.False(t, Match([]byte("ok code 200 y"), clauses))
}

func TestMatchOrCombinedWithSecondAndClause(t *testing.T) {
	// GET /log?...&ftr=or|500+404&ftr=err  -> (500 OR 404) AND err
	clauses := Parse([]string{"or|500 404", "err"})
	assert.True(t, Match([]byte("err code 500 x"), clauses))
	assert.True(t, Match([]byte("err code 404 z"), clauses))
	assert.False(t, Match([]byte("ok code 200 y"), clauses))
	assert.False(t, Match([]byte("err code 200 y"), clauses))
}

func TestEmptyTermsClauseIsDefensivelyTrue(t *testing.T) {
	c := Clause{Op: OpAnd, Terms: nil}
	assert.True(t, c.Matches([]byte("anything")))
}

func TestEmptyClauseListAlwaysMatches(t *testing.T) {
	assert.True(t, Match([]byte("anything"), nil))
}

func TestMonotoneInClauseAddition(t *testing.T) {
	line := []byte("err code 500 x")
	base := Parse([]string{"err"})
	assert.True(t, Match(line, base))

	// Adding a clause can only narrow, never widen, the accepted set.
	extended := Parse([]string{"err", "and|missingterm"})
	assert.False(t, Match(line, extended))
}

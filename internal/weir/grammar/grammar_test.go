package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolGrammar() []RawRule {
	return []RawRule{
		{LHS: "top", Name: "top", Pattern: []string{"expr"}},
		{LHS: "expr", Name: "true_expr", Pattern: []string{"TRUE"}},
		{LHS: "expr", Name: "false_expr", Pattern: []string{"FALSE"}},
		{LHS: "expr", Name: "num_expr", Pattern: []string{"NUM"}},
		{LHS: "expr", Name: "sub_expr", Pattern: []string{"expr", "DASH", "expr"}, Priority: 4},
	}
}

func Test_New_ValidGrammar(t *testing.T) {
	assert := assert.New(t)

	g, err := New(boolGrammar(), []string{"TRUE", "FALSE", "NUM", "DASH"})
	require.NoError(t, err)

	assert.True(g.IsNonterminal(g.Table.TypeID("expr")))
	assert.False(g.IsNonterminal(g.Table.TypeID("TRUE")))
	assert.Len(g.RulesFor(g.Table.TypeID("expr")), 4)
	assert.Equal("top", g.Table.RuleName(g.Top().Name))
}

func Test_New_DuplicateRuleName(t *testing.T) {
	rules := boolGrammar()
	rules = append(rules, RawRule{LHS: "expr", Name: "true_expr", Pattern: []string{"NUM"}})

	_, err := New(rules, []string{"TRUE", "FALSE", "NUM", "DASH"})
	assert.Error(t, err)
}

func Test_New_MissingTopRule(t *testing.T) {
	rules := []RawRule{
		{LHS: "expr", Name: "num_expr", Pattern: []string{"NUM"}},
	}
	_, err := New(rules, []string{"NUM"})
	assert.Error(t, err)
}

func Test_New_DuplicateTopRule(t *testing.T) {
	rules := []RawRule{
		{LHS: "top", Name: "top1", Pattern: []string{"expr"}},
		{LHS: "top", Name: "top2", Pattern: []string{"expr"}},
		{LHS: "expr", Name: "num_expr", Pattern: []string{"NUM"}},
	}
	_, err := New(rules, []string{"NUM"})
	assert.Error(t, err)
}

func Test_New_UndeclaredSymbol(t *testing.T) {
	rules := []RawRule{
		{LHS: "top", Name: "top", Pattern: []string{"expr"}},
		{LHS: "expr", Name: "num_expr", Pattern: []string{"NUM"}},
		{LHS: "expr", Name: "weird_expr", Pattern: []string{"NEVER_DECLARED"}},
	}
	_, err := New(rules, []string{"NUM"})
	assert.Error(t, err)
}

func Test_New_RejectsLeftRecursiveStepUpShape(t *testing.T) {
	rules := []RawRule{
		{LHS: "top", Name: "top", Pattern: []string{"expr"}},
		{LHS: "expr", Name: "num_expr", Pattern: []string{"NUM"}},
		// expr -> expr expr is the shape this module rejects.
		{LHS: "expr", Name: "bad_expr", Pattern: []string{"expr", "expr"}},
	}
	_, err := New(rules, []string{"NUM"})
	assert.Error(t, err)
}

func Test_Rule_CanNest(t *testing.T) {
	assert := assert.New(t)

	tight := Rule{Priority: 4}
	loose := Rule{Priority: 3}
	none := Rule{Priority: 0}

	assert.True(loose.CanNest(tight), "lower-priority(looser) child can nest in a tighter parent")
	assert.False(tight.CanNest(loose), "tighter child cannot nest in a looser parent")
	assert.True(none.CanNest(loose), "unprioritized rules never conflict")
	assert.True(loose.CanNest(none), "unprioritized rules never conflict")
}

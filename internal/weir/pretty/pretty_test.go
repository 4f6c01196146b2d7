package pretty

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/weir/internal/weir/grammar"
	"github.com/dekarrin/weir/internal/weir/tree"
)

// buildTrueTree constructs a tiny complete tree by hand: top -> expr ->
// TRUE, with no engine involved, so the printer can be exercised in
// isolation from the consume loop.
func buildTrueTree(t *testing.T) (*grammar.Grammar, *tree.Candidate) {
	t.Helper()
	g, err := grammar.New([]grammar.RawRule{
		{LHS: "top", Name: "top_expr", Pattern: []string{"expr"}},
		{LHS: "expr", Name: "expr_true", Pattern: []string{"TRUE"}},
	}, []string{"TRUE"})
	require.NoError(t, err)

	topRule, _ := g.Rule(g.Table.InternRuleName("top_expr"))
	c := tree.New(topRule)

	exprRule, _ := g.Rule(g.Table.InternRuleName("expr_true"))
	deepest := c.GraftStepDown(c.Root, []grammar.Rule{exprRule})
	c.W.Remove(c.Root)
	c.W.Add(deepest)

	deepest.AppendLexed(0, g.Table.TypeID("TRUE"))
	tree.MarkComplete(deepest)
	c.W.Remove(deepest)
	tree.MarkComplete(c.Root)

	return g, c
}

func Test_Tree_SingleLine_ContainsRuleNames(t *testing.T) {
	assert := assert.New(t)
	g, c := buildTrueTree(t)
	p := New(g)

	out := p.Tree(c.Root, false, nil)
	assert.Contains(out, "top_expr")
	assert.Contains(out, "expr_true")
	assert.Contains(out, "TRUE")
	assert.False(strings.Contains(out, "\n"))
}

func Test_Tree_Multiline_OneLinePerNode(t *testing.T) {
	assert := assert.New(t)
	g, c := buildTrueTree(t)
	p := New(g)

	out := p.Tree(c.Root, true, nil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// top_expr, its expr_true child, and the TYPE-named lexed TRUE line:
	// at least one line per node in the chain.
	assert.GreaterOrEqual(len(lines), 3)
	assert.Contains(out, "top_expr")
}

func Test_Tree_FrontierMarksWorkPointer(t *testing.T) {
	assert := assert.New(t)
	g, c := buildTrueTree(t)
	p := New(g)

	marked := map[*tree.Node]bool{c.Root: true}
	out := p.Tree(c.Root, false, marked)
	assert.Contains(out, "^")
}

func Test_Summary_ListsEachCandidateWithCompletionState(t *testing.T) {
	assert := assert.New(t)
	g, c := buildTrueTree(t)

	out := Summary(g, []*tree.Candidate{c})
	assert.Contains(out, "top_expr")
	assert.Contains(out, "true")
}

func Test_FrontierSet_ConvertsWorkPointers(t *testing.T) {
	assert := assert.New(t)
	_, c := buildTrueTree(t)
	c.W.Add(c.Root)

	set := FrontierSet(c)
	assert.True(set[c.Root])
}

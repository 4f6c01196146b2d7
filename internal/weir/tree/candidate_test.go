package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/weir/internal/weir/grammar"
	"github.com/dekarrin/weir/internal/weir/symtab"
)

// numExpr: expr -> NUM  (pattern length 1)
// topRule: top -> expr  (pattern length 1)
func newTestGrammar(t *testing.T) (*grammar.Grammar, grammar.Rule, grammar.Rule) {
	g, err := grammar.New([]grammar.RawRule{
		{LHS: "top", Name: "top", Pattern: []string{"expr"}},
		{LHS: "expr", Name: "num_expr", Pattern: []string{"NUM"}},
	}, []string{"NUM"})
	require.NoError(t, err)

	top, _ := g.Rule(g.Table.InternRuleName("top"))
	num, _ := g.Rule(g.Table.InternRuleName("num_expr"))
	return g, top, num
}

func Test_New_StartsWithSingleIncompleteRootInW(t *testing.T) {
	assert := assert.New(t)
	_, top, _ := newTestGrammar(t)

	c := New(top)
	assert.Equal(1, c.W.Len())
	assert.True(c.W.Has(c.Root))
	assert.False(c.Root.Complete())
	assert.Equal(0, len(c.Root.Parsed))
}

func Test_DirectConsumption_CompletesLeafNode(t *testing.T) {
	assert := assert.New(t)
	_, _, num := newTestGrammar(t)

	c := New(num)
	numID := symtab.ID(1)
	c.Root.AppendLexed(0, numID)
	assert.False(c.Root.Complete(), "completion is a cached flag, not auto-derived from Parsed length")

	MarkComplete(c.Root)
	assert.True(c.Root.Complete())
}

func Test_GraftStepDown_BuildsChainBeneathWorkPointer(t *testing.T) {
	assert := assert.New(t)
	_, top, num := newTestGrammar(t)

	c := New(top)
	deepest := c.GraftStepDown(c.Root, []grammar.Rule{num})

	require.NotNil(t, deepest)
	assert.Equal(num.Name, deepest.Rule.Name)
	assert.Equal(c.Root, deepest.Parent)

	last := c.Root.LastSlot()
	require.NotNil(t, last)
	assert.Equal(SlotSub, last.Kind)
	assert.Contains(last.SubChildren, deepest)
}

func Test_Clone_DuplicatesSpineAndIsolatesSpineMutation(t *testing.T) {
	assert := assert.New(t)
	_, top, num := newTestGrammar(t)

	orig := New(top)
	w := orig.GraftStepDown(orig.Root, []grammar.Rule{num})
	orig.W.Remove(orig.Root)
	orig.W.Add(w)

	cloned, clonedW := orig.Clone(w)

	assert.NotSame(orig.Root, cloned.Root, "root must be duplicated since it's on the spine")
	assert.NotSame(w, clonedW, "work pointer itself must be duplicated")

	clonedW.AppendLexed(0, symtab.ID(1))
	assert.Equal(0, len(w.Parsed), "mutating the clone's spine must not affect the original candidate's tree")

	assert.True(cloned.W.Has(clonedW))
	assert.False(cloned.W.Has(w))
}

func Test_Split_PartitionsCompleteAndIncompleteChildren(t *testing.T) {
	assert := assert.New(t)
	_, top, num := newTestGrammar(t)

	c := New(top)
	complete := c.newChildNode(num, c.Root)
	MarkComplete(complete)
	incomplete := c.newChildNode(num, c.Root)

	slot := c.Root.openSubSlot()
	slot.SubChildren = []*Node{complete, incomplete}

	n2, ok := c.Split(c.Root)
	assert.False(ok, "root has no parent, so Split cannot insert a sibling")
	require.NotNil(t, n2)

	assert.Equal([]*Node{incomplete}, c.Root.LastSlot().SubChildren)
	assert.Equal([]*Node{complete}, n2.LastSlot().SubChildren)
	assert.Equal(n2, complete.Parent)
	assert.Equal(c.Root, incomplete.Parent)
}

func Test_Split_InsertsSiblingWhenNotRoot(t *testing.T) {
	assert := assert.New(t)
	_, top, num := newTestGrammar(t)

	c := New(top)
	mid := c.newChildNode(num, c.Root)
	topSlot := c.Root.openSubSlot()
	topSlot.SubChildren = []*Node{mid}

	complete := c.newChildNode(num, mid)
	MarkComplete(complete)
	incomplete := c.newChildNode(num, mid)
	midSlot := mid.openSubSlot()
	midSlot.SubChildren = []*Node{complete, incomplete}

	n2, ok := c.Split(mid)
	assert.True(ok)
	require.NotNil(t, n2)

	assert.Contains(c.Root.LastSlot().SubChildren, mid)
	assert.Contains(c.Root.LastSlot().SubChildren, n2)
	assert.Equal(c.Root, n2.Parent)
}

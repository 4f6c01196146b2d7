package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/weir/internal/weir/symtab"
)

func Test_NextSymbol_ReturnsFalseWhenPatternExhausted(t *testing.T) {
	assert := assert.New(t)
	_, _, num := newTestGrammar(t)

	c := New(num)
	_, ok := c.Root.NextSymbol()
	assert.True(ok)

	c.Root.AppendLexed(0, symtab.ID(1))
	_, ok = c.Root.NextSymbol()
	assert.False(ok)
}

func Test_AllSlotsBeforeLastComplete(t *testing.T) {
	assert := assert.New(t)
	_, top, num := newTestGrammar(t)

	c := New(top)
	child1 := c.newChildNode(num, c.Root)
	child2 := c.newChildNode(num, c.Root)

	slot1 := c.Root.openSubSlot()
	slot1.SubChildren = []*Node{child1}
	assert.True(c.Root.AllSlotsBeforeLastComplete(), "only one slot so far: vacuously true")

	slot2 := c.Root.openSubSlot()
	slot2.SubChildren = []*Node{child2}
	assert.False(c.Root.AllSlotsBeforeLastComplete(), "slot1's child is still incomplete")

	MarkComplete(child1)
	assert.True(c.Root.AllSlotsBeforeLastComplete())
}

func Test_FirstLexicalToken_WalksLeftmostDerivation(t *testing.T) {
	assert := assert.New(t)
	_, top, num := newTestGrammar(t)

	c := New(top)
	child := c.newChildNode(num, c.Root)
	child.AppendLexed(3, symtab.ID(1))

	slot := c.Root.openSubSlot()
	slot.SubChildren = []*Node{child}

	idx, ok := c.Root.FirstLexicalToken()
	assert.True(ok)
	assert.Equal(3, idx)
}

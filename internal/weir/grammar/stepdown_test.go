package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arithGrammar(t *testing.T) *Grammar {
	rules := []RawRule{
		{LHS: "top", Name: "top", Pattern: []string{"expr"}},
		{LHS: "expr", Name: "num_expr", Pattern: []string{"NUM"}},
		{LHS: "expr", Name: "paren_expr", Pattern: []string{"LPAREN", "expr", "RPAREN"}},
		{LHS: "expr", Name: "add_expr", Pattern: []string{"expr", "PLUS", "expr"}, Priority: 3},
	}
	g, err := New(rules, []string{"NUM", "LPAREN", "RPAREN", "PLUS"})
	require.NoError(t, err)
	return g
}

// Every step-down stack must satisfy spec §8 property 2: the first rule's
// LHS is the target, each consecutive pair chains LHS-to-leftmost-symbol,
// and the final rule's leftmost symbol has the keyed terminal type.
func Test_BuildStepDown_Soundness(t *testing.T) {
	assert := assert.New(t)
	g := arithGrammar(t)

	table := BuildStepDown(g)
	require.NotEmpty(t, table)

	for key, stacks := range table {
		for _, stack := range stacks {
			require.NotEmpty(t, stack)
			assert.Equal(key.Target, stack[0].LHS, "first rule's LHS must be the target nonterminal")

			for i := 0; i+1 < len(stack); i++ {
				assert.Equal(stack[i].Pattern[0], stack[i+1].LHS,
					"rule %d's LHS must equal rule %d's leftmost pattern symbol", i+1, i)
			}

			last := stack[len(stack)-1]
			assert.True(g.Table.IsLexical(last.Pattern[0]), "final rule's leftmost symbol must be terminal")
			assert.Equal(key.Lexed, last.Pattern[0], "final rule's leftmost symbol must have the keyed type")
		}
	}
}

// No step-down stack may contain two rules sharing an LHS (spec §8 property 3).
func Test_BuildStepDown_LeftRecursionGuard(t *testing.T) {
	g := arithGrammar(t)
	table := BuildStepDown(g)

	for _, stacks := range table {
		for _, stack := range stacks {
			seen := make(map[int]bool)
			for _, r := range stack {
				assert.False(t, seen[int(r.LHS)], "stack must not repeat an LHS")
				seen[int(r.LHS)] = true
			}
		}
	}
}

// expr can step down to a NUM directly (depth 1, via num_expr) and to an
// LPAREN directly too (depth 1, via paren_expr, whose leftmost symbol is
// LPAREN).
func Test_BuildStepDown_ReachesExpectedTerminals(t *testing.T) {
	assert := assert.New(t)
	g := arithGrammar(t)
	table := BuildStepDown(g)

	exprID := g.Table.TypeID("expr")
	numID := g.Table.TypeID("NUM")
	lparenID := g.Table.TypeID("LPAREN")

	numStacks := table[StepDownKey{Lexed: numID, Target: exprID}]
	assert.NotEmpty(numStacks)

	lparenStacks := table[StepDownKey{Lexed: lparenID, Target: exprID}]
	assert.NotEmpty(lparenStacks)
}

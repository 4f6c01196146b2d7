package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every step-up action must satisfy spec §8 property 4: r.Pattern[0] ==
// L (the completed nonterminal), and either ThenStepDown is empty and
// r.Pattern[1] is terminal of the keyed type, or (keyed type,
// r.Pattern[1]) names exactly the recorded stack in the step-down table.
func Test_BuildStepUp_Soundness(t *testing.T) {
	assert := assert.New(t)
	g := arithGrammar(t)

	down := BuildStepDown(g)
	up := BuildStepUp(g, down)
	require.NotEmpty(t, up)

	for key, actions := range up {
		for _, act := range actions {
			assert.Equal(key.Completed, act.Rule.Pattern[0])

			second := act.Rule.Pattern[1]
			if len(act.ThenStepDown) == 0 {
				assert.True(g.Table.IsLexical(second))
				assert.Equal(key.Lexed, second)
				continue
			}

			downKey := StepDownKey{Lexed: key.Lexed, Target: second}
			found := false
			for _, stk := range down[downKey] {
				if sameStack(stk, act.ThenStepDown) {
					found = true
					break
				}
			}
			assert.True(found, "ThenStepDown must match a recorded step-down stack for (%v, %v)", key.Lexed, second)
		}
	}
}

func sameStack(a, b []Rule) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}

// add_expr (expr -> expr PLUS expr) should produce a step-up action keyed
// on PLUS for a just-completed expr, with no further descent needed since
// its second symbol is already terminal.
func Test_BuildStepUp_DirectTerminalSecondSymbol(t *testing.T) {
	assert := assert.New(t)
	g := arithGrammar(t)

	up := BuildStepUp(g, BuildStepDown(g))

	exprID := g.Table.TypeID("expr")
	plusID := g.Table.TypeID("PLUS")

	actions := up[StepUpKey{Lexed: plusID, Completed: exprID}]
	require.NotEmpty(t, actions)

	for _, act := range actions {
		assert.Empty(act.ThenStepDown)
		assert.Equal("add_expr", g.Table.RuleName(act.Rule.Name))
	}
}

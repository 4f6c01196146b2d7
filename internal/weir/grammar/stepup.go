package grammar

import "github.com/dekarrin/weir/internal/weir/symtab"

// StepUpKey identifies one step-up table bucket: an incoming lexeme type
// together with the nonterminal that a node just completed as.
type StepUpKey struct {
	Lexed     symtab.ID
	Completed symtab.ID
}

// StepUpAction is one way to wrap an already-complete node: apply Rule
// (whose pattern begins with the completed nonterminal), then, if
// ThenStepDown is non-empty, graft that step-down stack beneath the new
// node's second pattern position before consuming the lexeme.
type StepUpAction struct {
	Rule         Rule
	ThenStepDown []Rule
}

// StepUpTable is the multimap described in spec §4.4.
type StepUpTable map[StepUpKey][]StepUpAction

// BuildStepUp precomputes g's step-up table from its rules and an
// already-built step-down table.
//
// For every rule r with len(r.Pattern) >= 2, let first = r.Pattern[0] (the
// completed nonterminal this step-up applies to) and second =
// r.Pattern[1]. If second is terminal, (second, first) maps directly to r
// with no further descent needed. If second is a nonterminal N, every
// step-down entry keyed by (t, N) contributes an action (t, first) -> (r,
// that stack): the lexeme t is only acceptable here because descending
// from N via that stack would eventually accept it.
//
// This follows spec §4.4's text directly: first is r.Pattern[0], not
// necessarily r.LHS, and no rule is excluded merely because it is not
// "self-headed". A narrower reading is visible in one archived prototype,
// but the prose here is taken as authoritative.
func BuildStepUp(g *Grammar, stepDown StepDownTable) StepUpTable {
	table := make(StepUpTable)

	for _, r := range g.Rules() {
		if len(r.Pattern) < 2 {
			continue
		}
		first := r.Pattern[0]
		second := r.Pattern[1]

		if g.Table.IsLexical(second) {
			key := StepUpKey{Lexed: second, Completed: first}
			table[key] = append(table[key], StepUpAction{Rule: r})
			continue
		}

		for dk, stacks := range stepDown {
			if dk.Target != second {
				continue
			}
			key := StepUpKey{Lexed: dk.Lexed, Completed: first}
			for _, stk := range stacks {
				stkCopy := make([]Rule, len(stk))
				copy(stkCopy, stk)
				table[key] = append(table[key], StepUpAction{Rule: r, ThenStepDown: stkCopy})
			}
		}
	}

	return table
}

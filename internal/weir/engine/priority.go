package engine

import (
	"github.com/dekarrin/weir/internal/weir/grammar"
	"github.com/dekarrin/weir/internal/weir/tree"
)

// PriorityFilter is the built-in post-filter implementing spec §4.6. It
// inspects every Sub slot of completed for a direct child m producing the
// same nonterminal as completed with a non-zero priority, and rejects the
// candidate if completed violates priority against any such m:
//
//   - completed.Rule.Priority < m.Rule.Priority (a tighter-binding operator
//     lexically enclosed by a looser one), or
//   - the priorities are equal and completed's first lexical token precedes
//     m's (a right-associative capture where the grammar demands left).
//
// g is unused directly (the check is purely structural) but kept in the
// signature to match Filter and leave room for grammar-aware extensions.
func PriorityFilter(g *grammar.Grammar, c *tree.Candidate, completed *tree.Node) bool {
	for _, slot := range completed.Parsed {
		if slot.Kind != tree.SlotSub {
			continue
		}
		for _, m := range slot.SubChildren {
			if violatesPriority(completed, m) {
				return false
			}
		}
	}
	return true
}

// violatesPriority reports whether n violates priority with respect to
// direct sub-node m, per spec §4.6.
func violatesPriority(n, m *tree.Node) bool {
	if n.Rule.LHS != m.Rule.LHS {
		return false
	}
	if n.Rule.Priority == 0 || m.Rule.Priority == 0 {
		return false
	}
	if n.Rule.Priority < m.Rule.Priority {
		return true
	}
	if n.Rule.Priority > m.Rule.Priority {
		return false
	}

	nFirst, nOK := n.FirstLexicalToken()
	mFirst, mOK := m.FirstLexicalToken()
	if !nOK || !mOK {
		return false
	}
	return nFirst < mFirst
}

// Package tree implements the per-candidate parse tree algebra: nodes with
// parsed slots (spec §3), the work-pointer frontier, cloning via
// copy-on-write along the root-to-work spine, and node splitting (§4.7).
package tree

import (
	"github.com/dekarrin/weir/internal/weir/grammar"
	"github.com/dekarrin/weir/internal/weir/symtab"
)

// SlotKind distinguishes the two ParsedSlot shapes.
type SlotKind int

const (
	// SlotLexed holds a single consumed terminal token.
	SlotLexed SlotKind = iota
	// SlotSub holds one or more alternative child Nodes realizing local
	// ambiguity at this pattern position.
	SlotSub
)

// ParsedSlot is one already-reached position in a Node's rule pattern: a
// Lexed slot (an index into the run's shared token log) or a Sub slot (a
// non-empty set of alternative child Nodes).
type ParsedSlot struct {
	Kind        SlotKind
	LexedIndex  int
	LexedType   symtab.ID
	SubChildren []*Node
}

// Node is a single interior position in a candidate's parse tree (spec
// §3). complete is a cached flag rather than a recomputed predicate: it is
// set by the completion-propagation walk in the engine package, the moment
// every pattern position is reached and (for the final Sub slot, if any)
// every alternative child is itself complete, and cleared again only by
// Candidate.Reopen.
type Node struct {
	Rule    grammar.Rule
	Parent  *Node
	Parsed  []ParsedSlot
	complete bool
}

// Complete reports the node's cached completion state. See the field
// comment on complete for why this is a flag rather than a walk.
func (n *Node) Complete() bool {
	return n.complete
}

// markComplete sets the node's completion flag. Exported via the small
// surface engine needs (MarkComplete) rather than the field directly, so
// invariants about when this may legally be called stay centralized.
func (n *Node) markComplete() {
	n.complete = true
}

// MarkComplete is the engine's hook to flip a node's completion flag once
// it has verified every pattern position is reached and the last slot (if
// a Sub slot) holds only complete children.
func MarkComplete(n *Node) {
	n.markComplete()
}

// AppendLexed appends a Lexed slot referencing a token at tokenIndex (into
// the run's shared token log) of type tokenType, advancing the node one
// pattern position (spec §4.5 step 1, direct consumption).
func (n *Node) AppendLexed(tokenIndex int, tokenType symtab.ID) {
	n.Parsed = append(n.Parsed, ParsedSlot{
		Kind:       SlotLexed,
		LexedIndex: tokenIndex,
		LexedType:  tokenType,
	})
}

// NextPatternIndex returns the pattern position a direct consumption or
// graft would next occupy: len(n.Parsed).
func (n *Node) NextPatternIndex() int {
	return len(n.Parsed)
}

// NextSymbol returns the pattern symbol at the node's next unreached
// position, and false if the node's pattern is already fully parsed.
func (n *Node) NextSymbol() (sym symtab.ID, ok bool) {
	i := n.NextPatternIndex()
	if i >= len(n.Rule.Pattern) {
		return 0, false
	}
	return n.Rule.Pattern[i], true
}

// LastSlot returns a pointer to the node's final ParsedSlot, or nil if it
// has no parsed slots yet.
func (n *Node) LastSlot() *ParsedSlot {
	if len(n.Parsed) == 0 {
		return nil
	}
	return &n.Parsed[len(n.Parsed)-1]
}

// AllSlotsBeforeLastComplete reports whether every child in every
// ParsedSlot except the last is complete, the invariant required before a
// non-last Sub slot is considered settled (spec §3).
func (n *Node) AllSlotsBeforeLastComplete() bool {
	if len(n.Parsed) <= 1 {
		return true
	}
	for i := 0; i < len(n.Parsed)-1; i++ {
		s := n.Parsed[i]
		if s.Kind != SlotSub {
			continue
		}
		for _, c := range s.SubChildren {
			if !c.Complete() {
				return false
			}
		}
	}
	return true
}

// FirstLexicalToken walks down the node's leftmost derivation to find the
// index (into the run's token log) of the first terminal it covers. Used
// by the operator-priority filter (§4.6) to compare left-to-right
// positions of two candidate interpretations. Ambiguous nodes (a Sub slot
// with more than one child) pick the first child encountered; callers
// that need a specific alternative should navigate directly instead.
func (n *Node) FirstLexicalToken() (index int, ok bool) {
	cur := n
	for {
		if len(cur.Parsed) == 0 {
			return 0, false
		}
		first := cur.Parsed[0]
		if first.Kind == SlotLexed {
			return first.LexedIndex, true
		}
		if len(first.SubChildren) == 0 {
			return 0, false
		}
		cur = first.SubChildren[0]
	}
}

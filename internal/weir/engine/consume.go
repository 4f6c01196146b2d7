package engine

import (
	"github.com/dekarrin/weir/internal/weir/grammar"
	"github.com/dekarrin/weir/internal/weir/icterr"
	"github.com/dekarrin/weir/internal/weir/tree"
)

// stepCandidate computes every successor of c for the lexeme at log index
// idx, trying direct consumption, step-down grafting, and step-up wrapping
// for each eligible node in turn (spec §4.5). Every attempt that starts
// from a distinct work pointer or dangler clones c first (via
// tree.Candidate.Clone) so that c itself, and every other successor
// derived from it, is never mutated by another attempt — the
// deep-clone simplification noted in DESIGN.md's internal/weir/tree entry.
// Step-down grafting is
// the one exception: when more than one stack applies to the same work
// pointer, all of them are grafted into a single clone's Sub slot as
// sibling alternatives, rather than cloning once per stack, so that the
// local ambiguity lives in one slot the way spec §4.5 step 2 describes.
func (s *Session) stepCandidate(c *tree.Candidate, idx int, tok LexedToken) []*tree.Candidate {
	var successors []*tree.Candidate

	workPointers := make([]*tree.Node, 0, c.W.Len())
	for w := range c.W {
		workPointers = append(workPointers, w)
	}
	for _, w := range workPointers {
		sym, ok := w.NextSymbol()
		if !ok {
			icterr.InvariantViolation("work pointer %p has no pending pattern symbol", w)
		}

		if s.g.Table.IsLexical(sym) {
			if sym == tok.Type {
				clone, clonedW := c.Clone(w)
				successors = append(successors, s.directConsume(clone, clonedW, idx, tok)...)
			}
			continue
		}

		stacks := s.down[grammar.StepDownKey{Lexed: tok.Type, Target: sym}]
		if len(stacks) == 0 {
			continue
		}

		clone, clonedW := c.Clone(w)
		clone.W.Remove(clonedW)
		deepestNodes := clone.GraftStepDownStacks(clonedW, stacks)
		for _, deepest := range deepestNodes {
			clone.W.Add(deepest)
		}

		// clone itself may be returned by more than one of these
		// directConsume calls (once per alternative that leaves it
		// still pending, or as the untouched "extra" half of a split);
		// it must only ever appear once in successors.
		baseIncluded := false
		for _, deepest := range deepestNodes {
			for _, succ := range s.directConsume(clone, deepest, idx, tok) {
				if succ == clone {
					if baseIncluded {
						continue
					}
					baseIncluded = true
				}
				successors = append(successors, succ)
			}
		}
	}

	danglers := make([]*tree.Node, 0, c.Dangling.Len())
	for d := range c.Dangling {
		danglers = append(danglers, d)
	}
	for _, d := range danglers {
		actions := s.up[grammar.StepUpKey{Lexed: tok.Type, Completed: d.Rule.LHS}]
		for _, act := range actions {
			clone, clonedD := c.Clone(d)
			clone.Dangling.Remove(clonedD)

			oldParent := clonedD.Parent
			// StepUpWrap returns exactly the node direct consumption
			// should apply to next: the wrap node itself if it has no
			// step-down tail, or the bottom of the grafted stack.
			target := clone.StepUpWrap(clonedD, act.Rule, act.ThenStepDown)
			if oldParent == nil {
				clone.Root = stepUpRootOf(target)
			} else {
				// The wrapped node's ancestors may already have been
				// marked complete on an earlier token. Their
				// last slot now holds an incomplete child (the new
				// wrapper, still missing its tail), so their cached
				// completion must be corrected.
				clone.Reopen(oldParent)
			}
			successors = append(successors, s.directConsume(clone, target, idx, tok)...)
		}
	}

	return successors
}

// stepUpRootOf walks up from a freshly-created step-up wrapper to find the
// new candidate root, covering the case where the wrapped node used to be
// the candidate's root itself (spec §4.5 step 3 doesn't name this case
// explicitly; the wrapper is promoted to root).
func stepUpRootOf(n *tree.Node) *tree.Node {
	cur := n
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// directConsume appends a Lexed slot for tok at w (already isolated in its
// own candidate c by an earlier Clone). If w's pattern still has positions
// left after this, w simply goes back on the frontier; only a node that is
// now fully populated enters completion-propagation.
func (s *Session) directConsume(c *tree.Candidate, w *tree.Node, idx int, tok LexedToken) []*tree.Candidate {
	c.W.Remove(w)
	w.AppendLexed(idx, tok.Type)
	if w.NextPatternIndex() < len(w.Rule.Pattern) {
		c.W.Add(w)
		return []*tree.Candidate{c}
	}
	return s.ascend(c, w)
}

// ascend implements the completion-propagation walk of spec §4.5 step 1:
// starting from a node that just became complete, mark it complete and
// climb while each successive parent's last slot is now fully complete
// too. A parent whose last slot mixes complete and incomplete children is
// split (§4.7) before ascent can continue past it; if the split happens at
// a candidate's root, the newly-split-off complete half becomes the root
// of a brand-new sibling candidate, returned alongside the original.
func (s *Session) ascend(c *tree.Candidate, w *tree.Node) []*tree.Candidate {
	markCompleteAndDangle(c, w)

	cur := w
	extra := []*tree.Candidate{c}

	for {
		parent := cur.Parent
		if parent == nil {
			return extra
		}

		last := parent.LastSlot()
		if last == nil || last.Kind != tree.SlotSub {
			return extra
		}

		allComplete, anyComplete := slotCompletion(last)
		if !allComplete {
			if !anyComplete {
				return extra
			}
			n2, ok := c.Split(parent)
			if n2 == nil {
				return extra
			}
			if !ok {
				// parent was the candidate's root: fork a sibling
				// candidate rooted at n2 and let the original c keep its
				// incomplete half.
				forked := forkCandidateAt(c, n2)
				return append(s.ascend(forked, n2), extra...)
			}
			cur = n2
			markCompleteAndDangle(c, cur)
			continue
		}

		if parent.NextPatternIndex() < len(parent.Rule.Pattern) {
			c.W.Add(parent)
			return extra
		}

		markCompleteAndDangle(c, parent)
		cur = parent
	}
}

// markCompleteAndDangle flags n complete and, since a node that just
// became complete might not have an enclosing incomplete ancestor to be
// absorbed into, always also makes it available in Dangling for a
// subsequent step-up wrap (spec §4.5 step 3). Ascent continuing past n
// afterward doesn't remove it from Dangling: the node the next token's
// step-up wraps might be several levels below a chain that has also
// already completed all the way to the root.
func markCompleteAndDangle(c *tree.Candidate, n *tree.Node) {
	if n.NextPatternIndex() < len(n.Rule.Pattern) {
		icterr.InvariantViolation("node for rule %v marked complete with pattern position %d of %d unreached", n.Rule.Name, n.NextPatternIndex(), len(n.Rule.Pattern))
	}
	tree.MarkComplete(n)
	c.W.Remove(n)
	c.Dangling.Add(n)
}

func slotCompletion(slot *tree.ParsedSlot) (allComplete, anyComplete bool) {
	allComplete = true
	for _, child := range slot.SubChildren {
		if child.Complete() {
			anyComplete = true
		} else {
			allComplete = false
		}
	}
	return allComplete, anyComplete
}

// forkCandidateAt builds a brand-new Candidate whose root is n2 (already
// allocated in orig's arena by Split), sharing orig's arena. n2's own
// subtree is fully formed and complete; ascend is expected to run on it
// immediately by the caller.
func forkCandidateAt(orig *tree.Candidate, n2 *tree.Node) *tree.Candidate {
	return tree.NewForked(orig, n2)
}

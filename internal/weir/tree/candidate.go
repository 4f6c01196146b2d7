package tree

import (
	"github.com/dekarrin/weir/internal/util"
	"github.com/dekarrin/weir/internal/weir/grammar"
)

// Candidate is one in-flight partial parse tree (spec §3): a root Node
// plus the work-pointer set W marking its current frontier. Node storage
// comes from a private arena so that the whole tree is released at once
// when the candidate dies.
//
// Dangling holds every node that has been marked complete during ascent,
// whether or not an incomplete ancestor absorbed it: these are the
// already-complete nodes spec §4.5 step 3 looks up in the step-up table on
// the *next* token. A node in Dangling is, by construction, never also in
// W (W holds only incomplete nodes).
type Candidate struct {
	arena    *arena
	Root     *Node
	W        util.KeySet[*Node]
	Dangling util.KeySet[*Node]
}

// New creates the single starting Candidate for a run: a root Node of
// topRule with an empty Parsed slice and W = {root}.
func New(topRule grammar.Rule) *Candidate {
	a := newArena()
	root := a.alloc()
	root.Rule = topRule
	c := &Candidate{
		arena:    a,
		Root:     root,
		W:        util.NewKeySet[*Node](),
		Dangling: util.NewKeySet[*Node](),
	}
	c.W.Add(root)
	return c
}

// NewForked builds a new Candidate rooted at n2, sharing orig's arena. It
// is used exactly once: when node splitting (§4.7) reaches a candidate's
// root and produces a complete sibling half with nowhere to attach as a
// sibling node, that half becomes the root of its own candidate instead.
func NewForked(orig *Candidate, n2 *Node) *Candidate {
	return &Candidate{
		arena:    orig.arena,
		Root:     n2,
		W:        util.NewKeySet[*Node](),
		Dangling: util.NewKeySet[*Node](),
	}
}

// openSubSlot appends a new, empty Sub slot to n's Parsed list. Callers
// populate SubChildren immediately afterward (direct consumption always
// has exactly the Lexed slot it needs; step-down/step-up grafting use this
// to start a fresh ambiguity point).
func (n *Node) openSubSlot() *ParsedSlot {
	n.Parsed = append(n.Parsed, ParsedSlot{Kind: SlotSub})
	return &n.Parsed[len(n.Parsed)-1]
}

// newChildNode allocates a new Node for rule r, parented to parent, from
// the same arena as parent's candidate. Used by both step-down grafting
// and step-up wrapping.
func (c *Candidate) newChildNode(r grammar.Rule, parent *Node) *Node {
	n := c.arena.alloc()
	n.Rule = r
	n.Parent = parent
	return n
}

// GraftStepDown opens a new Sub slot on w and grafts the rule stack
// [r1, ..., rk] beneath it: r1 becomes a child of w, r2 a child of r1, and
// so on. It returns the deepest grafted node (rk's node), the new
// work-pointer that direct consumption should then be applied to.
func (c *Candidate) GraftStepDown(w *Node, stack []grammar.Rule) *Node {
	return c.graftStackInto(w.openSubSlot(), w, stack)
}

// GraftStepDownStacks opens a single new Sub slot on w and grafts every
// stack in stacks beneath it as sibling top-level children, one clone of
// the candidate total rather than one per stack: a single sub slot
// accumulates the several alternative top-level children step-down found
// for the same work pointer, realizing the local ambiguity in place
// (spec §4.5 step 2). It returns the deepest node of each stack, in the
// same order as stacks, for the caller to consume the triggering token
// against.
func (c *Candidate) GraftStepDownStacks(w *Node, stacks [][]grammar.Rule) []*Node {
	slot := w.openSubSlot()
	deepest := make([]*Node, len(stacks))
	for i, stack := range stacks {
		deepest[i] = c.graftStackInto(slot, w, stack)
	}
	return deepest
}

// graftStackInto grafts stack beneath parent, attaching the first rule's
// node to slot (an already-open Sub slot on parent) and opening a fresh
// singleton slot for every rule beneath that, the same chain shape
// GraftStepDown has always built. Only the link directly under parent can
// be one of several alternatives sharing parent's slot.
func (c *Candidate) graftStackInto(slot *ParsedSlot, parent *Node, stack []grammar.Rule) *Node {
	cur := parent
	for i, r := range stack {
		if i > 0 {
			slot = cur.openSubSlot()
		}
		child := c.newChildNode(r, cur)
		slot.SubChildren = append(slot.SubChildren, child)
		cur = child
	}
	return cur
}

// StepUpWrap creates a new node n of rule r standing in w's former position
// under w.Parent, with n's first parsed slot a Sub slot containing w
// (reparented to n). then_step_down is grafted beneath n at position 1.
// It returns the deepest node that direct consumption should then apply
// to: either n itself (if then_step_down is empty, meaning n's second
// pattern symbol is the terminal about to be consumed) or the bottom of
// the grafted step-down stack.
func (c *Candidate) StepUpWrap(w *Node, r grammar.Rule, thenStepDown []grammar.Rule) *Node {
	n := c.newChildNode(r, w.Parent)

	firstSlot := n.openSubSlot()
	firstSlot.SubChildren = append(firstSlot.SubChildren, w)
	w.Parent = n

	replaceChildInParentSlot(n.Parent, w, n)

	if len(thenStepDown) == 0 {
		return n
	}
	return c.GraftStepDown(n, thenStepDown)
}

// Reopen walks upward from n clearing the cached completion flag of n and
// every ancestor that was complete only because n's subtree used to be
// complete, stopping as soon as it reaches an ancestor that was not
// marked complete to begin with. Used after a step-up wrap replaces an
// already-finished node with a fresh, still-incomplete wrapper beneath an
// ancestor chain that had already been marked complete on an earlier
// token.
func (c *Candidate) Reopen(n *Node) {
	cur := n
	for cur != nil && cur.complete {
		cur.complete = false
		c.Dangling.Remove(cur)
		cur = cur.Parent
	}
}

// replaceChildInParentSlot finds oldChild within parent's last Sub slot and
// replaces it with newChild in place. If parent is nil (w was the root),
// there is nothing to replace: the caller is expected to install newChild
// as the candidate's new Root.
func replaceChildInParentSlot(parent *Node, oldChild, newChild *Node) {
	if parent == nil {
		return
	}
	slot := parent.LastSlot()
	if slot == nil || slot.Kind != SlotSub {
		return
	}
	for i, c := range slot.SubChildren {
		if c == oldChild {
			slot.SubChildren[i] = newChild
			return
		}
	}
}

package tree

import (
	"github.com/dekarrin/weir/internal/util"
	"github.com/dekarrin/weir/internal/weir/icterr"
)

// Clone produces a new Candidate that is a copy-on-write duplicate of c
// along the spine from w to the root (spec §4.5 step 2/3: every graft
// clones the candidate before mutating it). Nodes off the spine are shared
// by pointer with the original candidate's tree; only ancestors of w get
// fresh Node values in the new candidate's own arena.
//
// The returned candidate's work-pointer set is c.W with w replaced by its
// clone; every other work pointer, being off the spine (per the candidate
// invariant that no W member is an ancestor or descendant of another), is
// carried over unchanged.
//
// Clone returns the new candidate together with the clone of w, so the
// caller can graft beneath it.
func (c *Candidate) Clone(w *Node) (clone *Candidate, clonedW *Node) {
	a := newArena()

	var chain []*Node
	for n := w; n != nil; n = n.Parent {
		chain = append(chain, n)
	}
	if len(chain) == 0 || chain[len(chain)-1] != c.Root {
		icterr.InvariantViolation("clone spine from work pointer does not reach the candidate's root")
	}

	var parentClone *Node
	var rootClone *Node
	for i := len(chain) - 1; i >= 0; i-- {
		orig := chain[i]

		cl := a.alloc()
		*cl = *orig
		cl.Parsed = copySlots(orig.Parsed)
		cl.Parent = parentClone

		if parentClone == nil {
			rootClone = cl
		} else {
			replaceChildInParentSlot(parentClone, orig, cl)
		}
		parentClone = cl
	}
	clonedW = parentClone

	clone = &Candidate{
		arena:    a,
		Root:     rootClone,
		W:        remapSet(c.W, w, clonedW),
		Dangling: remapSet(c.Dangling, w, clonedW),
	}
	return clone, clonedW
}

// remapSet copies src, replacing the entry equal to oldMember with
// newMember wherever it appears (members off the cloned spine are carried
// over unchanged, since they're shared with the original candidate).
func remapSet(src util.KeySet[*Node], oldMember, newMember *Node) util.KeySet[*Node] {
	out := util.NewKeySet[*Node]()
	for member := range src {
		if member == oldMember {
			out.Add(newMember)
		} else {
			out.Add(member)
		}
	}
	return out
}

// copySlots makes a shallow copy of a node's ParsedSlot slice: a new slice
// header, and for each Sub slot a new SubChildren slice header, so that
// mutating the clone's membership of a slot (replacing one child pointer)
// never touches the original node's slots. The Node values the slices
// point to are untouched — they are shared with the original tree unless
// they themselves lie on the cloned spine.
func copySlots(orig []ParsedSlot) []ParsedSlot {
	if orig == nil {
		return nil
	}
	out := make([]ParsedSlot, len(orig))
	copy(out, orig)
	for i := range out {
		if out[i].Kind == SlotSub && out[i].SubChildren != nil {
			children := make([]*Node, len(out[i].SubChildren))
			copy(children, out[i].SubChildren)
			out[i].SubChildren = children
		}
	}
	return out
}

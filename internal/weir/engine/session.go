package engine

import (
	"github.com/dekarrin/weir/internal/weir/icterr"
	"github.com/dekarrin/weir/internal/weir/tree"
)

// Feed advances every live candidate by one lexed token (spec §4.5), applies
// the registered post-filters (§4.6, §4.9), and prunes dead candidates
// (§4.8). It returns a SyntaxError (see internal/weir/icterr) naming tok's
// position and type if the token eliminates every candidate.
func (s *Session) Feed(tok LexedToken) error {
	idx := len(s.log)
	s.log = append(s.log, tok)

	var next []*tree.Candidate
	for _, c := range s.candidates {
		for _, succ := range s.stepCandidate(c, idx, tok) {
			if s.survivesFilters(succ) {
				next = append(next, succ)
			}
		}
	}

	next = pruneDead(next)

	if len(next) == 0 {
		return icterr.SyntaxError(tok.Line, tok.Column, s.g.Table.TypeName(tok.Type))
	}

	s.tracef("fed %s(%q): %d candidate(s) survive", s.g.Table.TypeName(tok.Type), tok.Content, len(next))
	s.candidates = next
	return nil
}

// survivesFilters runs every registered filter (the built-in
// PriorityFilter plus any registered via RegisterFilter) against every
// already-complete node of c. Property 8 (idempotence of post-filters)
// makes it safe to re-check nodes a previous token's Feed call already
// passed: a filter's verdict on a fixed subtree never changes, so this
// simplifies §4.6's "runs exactly when a new top-level node completes"
// into "runs over every completed node, every token" without changing
// which candidates ultimately survive (see DESIGN.md's internal/weir/engine
// entry).
func (s *Session) survivesFilters(c *tree.Candidate) bool {
	for completed := range c.Dangling {
		for _, f := range s.filters {
			if !f(s.g, c, completed) {
				return false
			}
		}
	}
	return true
}

// pruneDead removes candidates with an empty work-pointer set and an
// incomplete root: dead ends with nowhere left to grow (spec §4.8).
func pruneDead(cs []*tree.Candidate) []*tree.Candidate {
	out := make([]*tree.Candidate, 0, len(cs))
	for _, c := range cs {
		if c.W.Len() == 0 && !c.Root.Complete() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Finish ends the run (spec §4, §7): it returns every surviving candidate
// whose root is complete, or an IncompleteParse error if none are, or an
// AmbiguousParse{count} error if more than one is.
func (s *Session) Finish() ([]*tree.Candidate, error) {
	var complete []*tree.Candidate
	for _, c := range s.candidates {
		if c.Root.Complete() {
			complete = append(complete, c)
		}
	}

	if len(complete) == 0 {
		return nil, icterr.IncompleteParse()
	}
	if len(complete) > 1 {
		return nil, icterr.AmbiguousParse(len(complete))
	}
	return complete, nil
}

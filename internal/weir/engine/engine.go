// Package engine drives the consume loop described in spec §4.5–§4.9: it
// advances each candidate's frontier one lexed token at a time by direct
// consumption, step-down grafting, or step-up wrapping, splits nodes whose
// ambiguous slots mix complete and incomplete children, applies the
// built-in operator-priority filter plus any registered post-filters, and
// prunes dead candidates.
package engine

import (
	"fmt"

	"github.com/dekarrin/weir/internal/weir/grammar"
	"github.com/dekarrin/weir/internal/weir/symtab"
	"github.com/dekarrin/weir/internal/weir/tree"
)

// LexedToken is the external input unit: a token instance plus its
// position in the source, per the lexer contract of spec §6.
type LexedToken struct {
	Type    symtab.ID
	Content string
	Line    int
	Column  int
}

// Filter is a post-filter hook (spec §4.9): given a candidate and a
// completed node within it, report whether the candidate should be kept.
// Session.Feed calls every filter once per node in the candidate's
// Dangling set, every token. The built-in operator-priority filter (§4.6)
// is implemented as one of these; callers may register additional ones
// for domain-specific context rules.
type Filter func(g *grammar.Grammar, c *tree.Candidate, completed *tree.Node) bool

// Session is one run of the engine over a token stream: the live candidate
// set plus the precomputed tables and registered filters it was built
// with. A Session is created fresh per parse; it holds no state shared
// across runs other than the read-only Grammar/tables.
type Session struct {
	g       *grammar.Grammar
	down    grammar.StepDownTable
	up      grammar.StepUpTable
	filters []Filter
	trace   func(string)

	candidates []*tree.Candidate
	log        []LexedToken
}

// New builds a Session over g, with the operator-priority filter
// registered by default. trace may be nil; if non-nil it receives one line
// per successfully fed token, naming the token and the surviving candidate
// count, in the style of the teacher's lrParser trace hook.
func New(g *grammar.Grammar, trace func(string)) *Session {
	down := grammar.BuildStepDown(g)
	up := grammar.BuildStepUp(g, down)

	s := &Session{
		g:          g,
		down:       down,
		up:         up,
		trace:      trace,
		candidates: []*tree.Candidate{tree.New(g.Top())},
	}
	s.RegisterFilter(PriorityFilter)
	return s
}

// RegisterFilter adds a post-filter hook to the session (spec §4.9).
func (s *Session) RegisterFilter(f Filter) {
	s.filters = append(s.filters, f)
}

func (s *Session) tracef(format string, a ...interface{}) {
	if s.trace == nil {
		return
	}
	if len(a) == 0 {
		s.trace(format)
		return
	}
	s.trace(fmt.Sprintf(format, a...))
}

// CandidateCount reports the number of live candidates, for diagnostics.
func (s *Session) CandidateCount() int {
	return len(s.candidates)
}

// Log returns the token stream fed so far, in order. A completed tree's
// Lexed slots index into this by position; callers resolving a tree's
// terminal content need this alongside the tree itself.
func (s *Session) Log() []LexedToken {
	return s.log
}

// Package weir is the public entry point for the ambiguous, grammar-driven
// online parser (spec §6). It wires internal/weir/grammar,
// internal/weir/tree, and internal/weir/engine behind the same
// package-level-facade-plus-session shape the teacher's ictiobus package
// uses for its Frontend[E]: a few factory functions returning narrow
// interfaces, and one long-lived Session object that the caller drives one
// token at a time.
package weir

import (
	"github.com/dekarrin/weir/internal/weir/engine"
	"github.com/dekarrin/weir/internal/weir/gramfile"
	"github.com/dekarrin/weir/internal/weir/grammar"
	"github.com/dekarrin/weir/internal/weir/icterr"
	"github.com/dekarrin/weir/internal/weir/pretty"
	"github.com/dekarrin/weir/internal/weir/symtab"
	"github.com/dekarrin/weir/internal/weir/tree"
)

// Token is the external lexed-input unit a Session consumes: a declared
// TokenType name, the raw lexeme, and its 1-based line/column in the
// source (spec §6's lexer contract).
type Token struct {
	Type    string
	Content string
	Line    int
	Column  int
}

// Filter is a post-filter hook registered on a Parser (spec §4.9): given
// the grammar and a completed node, report whether the candidate holding
// it survives. Every Feed calls it for every completed node of every
// candidate, so the same node is seen again on later tokens. The built-in operator-priority filter
// (§4.6) is always registered first; RegisterFilter appends additional
// ones run after it, in registration order.
type Filter func(g *grammar.Grammar, completed *Node) bool

// Parser holds one loaded grammar plus any caller-registered post-filter
// hooks, and starts fresh Sessions against it. A Parser is safe to reuse
// for many concurrent Sessions: the Grammar and its precomputed tables are
// read-only once built.
type Parser struct {
	g        *grammar.Grammar
	extra    []engine.Filter
	trace    func(string)
}

// New builds a Parser from an already-constructed Grammar.
func New(g *grammar.Grammar) *Parser {
	return &Parser{g: g}
}

// Load builds a Parser from a TOML grammar file at path (spec §6's static
// grammar schema, internal/weir/gramfile's format).
func Load(path string) (*Parser, error) {
	g, err := gramfile.Load(path)
	if err != nil {
		return nil, err
	}
	return New(g), nil
}

// Table exposes the parser's symbol table, so that a caller building
// Tokens by hand (rather than through internal/weir/lex) can resolve type
// names to the same TypeIDs the grammar was built with.
func (p *Parser) Table() *symtab.Table {
	return p.g.Table
}

// RegisterFilter adds a post-filter hook run after the built-in
// operator-priority filter, on every Session started from this Parser
// from this point on. It does not affect Sessions already started.
func (p *Parser) RegisterFilter(f Filter) {
	p.extra = append(p.extra, func(g *grammar.Grammar, c *tree.Candidate, completed *tree.Node) bool {
		return f(g, &Node{g: g, n: completed})
	})
}

// Trace installs a diagnostic sink that receives one line per successfully
// fed token (its type, content and the surviving candidate count) on every
// Session started from this point on, in the style of the teacher's
// lrParser trace hook.
// Pass nil to disable.
func (p *Parser) Trace(fn func(string)) {
	p.trace = fn
}

// Start begins a new online parse: a single candidate rooted at the
// grammar's "top" rule, with an empty frontier waiting for the first
// token (spec §4.5).
func (p *Parser) Start() *Session {
	s := engine.New(p.g, p.trace)
	for _, f := range p.extra {
		s.RegisterFilter(f)
	}
	return &Session{g: p.g, s: s}
}

// Session is one online parse run: Feed advances it one token at a time;
// Finish reports the result once the input is exhausted. A Session is not
// safe for concurrent use from multiple goroutines.
type Session struct {
	g *grammar.Grammar
	s *engine.Session
}

// Feed advances the session by one lexed token (spec §4.5). It returns a
// SyntaxError (see internal/weir/icterr) the moment no live candidate can
// accept tok; once that happens the Session must be discarded, since every
// candidate it held is now dead.
func (s *Session) Feed(tok Token) (err error) {
	defer icterr.RecoverInvariantViolation(&err)
	typ := s.g.Table.TypeIDOrInvalid(tok.Type)
	if typ == symtab.InvalidID {
		return icterr.SyntaxError(tok.Line, tok.Column, tok.Type)
	}
	return s.s.Feed(engine.LexedToken{
		Type:    typ,
		Content: tok.Content,
		Line:    tok.Line,
		Column:  tok.Column,
	})
}

// Finish reports the parse result once the token stream is exhausted
// (spec §4.8): exactly one complete tree on success, an AmbiguousParse
// error naming how many candidates completed, or an IncompleteParse error
// if none did.
func (s *Session) Finish() ([]*Tree, error) {
	cs, err := s.s.Finish()
	if err != nil {
		return nil, err
	}
	log := s.s.Log()
	out := make([]*Tree, len(cs))
	for i, c := range cs {
		out[i] = &Tree{g: s.g, c: c, log: log}
	}
	return out, nil
}

// Tree is a single completed parse tree, wrapping the candidate that
// produced it so that the internal/weir/tree representation never leaks
// past this package's boundary.
type Tree struct {
	g   *grammar.Grammar
	c   *tree.Candidate
	log []engine.LexedToken
}

// Root returns the tree's root Node.
func (t *Tree) Root() *Node {
	return &Node{g: t.g, log: t.log, n: t.c.Root}
}

// Pretty renders the tree for debugging (spec §6). With multiline false it
// prints on a single line with parenthesized children; with multiline
// true, each nesting level gets its own indented line.
func (t *Tree) Pretty(multiline bool) string {
	p := pretty.New(t.g)
	frontier := pretty.FrontierSet(t.c)
	return p.Tree(t.c.Root, multiline, frontier)
}

// Node is a read-only view onto one position in a completed (or
// in-progress) parse tree: the rule it was parsed as, and its children.
type Node struct {
	g   *grammar.Grammar
	log []engine.LexedToken
	n   *tree.Node
}

// RuleName returns the name of the rule this node was parsed as.
func (n *Node) RuleName() string {
	return n.g.Table.RuleName(n.n.Rule.Name)
}

// Complete reports whether this node's pattern has been fully parsed.
func (n *Node) Complete() bool {
	return n.n.Complete()
}

// Lexed is one consumed terminal token, as seen from a completed tree.
type Lexed struct {
	TypeName string
	Content  string
}

// Children walks n's parsed slots in order, returning a Lexed token for
// each Lexed slot and the set of alternative child Nodes for each Sub
// slot (more than one alternative means this position is still locally
// ambiguous within an otherwise-complete tree, which Non-goals in spec §5
// permit: only the whole candidate's completion is guaranteed unique at
// Finish).
func (n *Node) Children() (lexed []Lexed, subs [][]*Node) {
	for _, slot := range n.n.Parsed {
		switch slot.Kind {
		case tree.SlotLexed:
			l := Lexed{TypeName: n.g.Table.TypeName(slot.LexedType)}
			if slot.LexedIndex >= 0 && slot.LexedIndex < len(n.log) {
				l.Content = n.log[slot.LexedIndex].Content
			}
			lexed = append(lexed, l)
		case tree.SlotSub:
			var alt []*Node
			for _, c := range slot.SubChildren {
				alt = append(alt, &Node{g: n.g, log: n.log, n: c})
			}
			subs = append(subs, alt)
		}
	}
	return lexed, subs
}

// IsSyntaxError reports whether err is a SyntaxError and, if so, returns
// its structured fields for CLI/server reporting.
func IsSyntaxError(err error) (line, column int, tokenType string, ok bool) {
	return icterr.AsSyntaxError(err)
}

// IsAmbiguousParse reports whether err is an AmbiguousParse and, if so,
// the number of candidates that completed.
func IsAmbiguousParse(err error) (count int, ok bool) {
	return icterr.AsAmbiguousParse(err)
}

// IsIncompleteParse reports whether err is an IncompleteParse.
func IsIncompleteParse(err error) bool {
	return icterr.IsIncompleteParse(err)
}

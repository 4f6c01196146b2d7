// Package lex is a reference lexer implementing the external lexer
// contract the parser consumes (spec §6): it yields LexedTokens whose type
// is drawn from a declared set, never peeking ahead and never pushing
// tokens back. It is not part of the parser core; the core accepts
// engine.LexedToken values from any source, but a runnable CLI/server needs
// something to actually produce them from text.
//
// Every pattern is tried at the current input position and the longest
// match wins, ties going to the pattern declared first: an adaptation of
// the teacher's ordered-pattern-list internal/ictiobus/lex lexer,
// simplified to a single state: this parser's
// grammar already disambiguates structure, so the lexer's only job is to
// chop the input into typed lexemes.
package lex

import (
	"fmt"
	"regexp"

	"github.com/dekarrin/weir/internal/weir/symtab"
)

// Rule is one lexical pattern: lexemes matching Pattern (anchored at the
// current position) are reported with TokenType Type. Skip rules (Type =="")
// match text to discard, such as whitespace and comments.
type Rule struct {
	Type    string
	Pattern string
}

type compiledRule struct {
	typeName string
	re       *regexp.Regexp
}

// Lexer tokenizes input text against an ordered list of rules: at each
// position the rule with the longest match wins, and among rules matching
// the same length the one declared first wins (teacher's
// ordered-pattern-list convention, minus the per-state class bookkeeping
// this module has no use for).
type Lexer struct {
	rules []compiledRule
}

// New compiles rules in order. If any pattern fails to compile it returns
// the plain compile error, prefixed with the rule's type name.
func New(rules []Rule) (*Lexer, error) {
	lx := &Lexer{}
	for _, r := range rules {
		re, err := regexp.Compile(`\A(?:` + r.Pattern + `)`)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Type, err)
		}
		lx.rules = append(lx.rules, compiledRule{typeName: r.Type, re: re})
	}
	return lx, nil
}

// Token is one lexed unit: the declared type name, the raw lexeme text, and
// its 1-based line/column in the source.
type Token struct {
	Type    string
	Content string
	Line    int
	Column  int
}

// LexAll tokenizes src in full, skipping rules whose Type is empty. Returns
// an error naming the offending line/column if no rule matches at some
// position.
func (lx *Lexer) LexAll(src string) ([]Token, error) {
	var toks []Token
	line, col := 1, 1
	for i := 0; i < len(src); {
		rest := src[i:]
		matchLen := -1
		var matchType string
		for _, r := range lx.rules {
			loc := r.re.FindStringIndex(rest)
			if loc == nil || loc[0] != 0 {
				continue
			}
			if loc[1] > matchLen {
				matchLen = loc[1]
				matchType = r.typeName
			}
		}
		if matchLen <= 0 {
			return nil, fmt.Errorf("lex error at line %d, column %d: no rule matches %q", line, col, rest[:min(len(rest), 16)])
		}

		lexeme := rest[:matchLen]
		if matchType != "" {
			toks = append(toks, Token{Type: matchType, Content: lexeme, Line: line, Column: col})
		}

		for _, r := range lexeme {
			if r == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		i += matchLen
	}
	return toks, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// InternAll interns every token's (type, content) pair via tab, producing
// symtab IDs ready to hand to engine.LexedToken.
func InternAll(tab *symtab.Table, toks []Token) []symtab.ID {
	ids := make([]symtab.ID, len(toks))
	for i, t := range toks {
		ids[i] = tab.Intern(t.Type, t.Content)
	}
	return ids
}

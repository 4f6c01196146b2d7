// Package symtab provides the write-once registries that back the parser's
// hot path: interning of token type names, of (type, content) token
// instances, and of rule names to small dense integers so that the engine
// compares integers rather than strings.
//
// A Table is built once at grammar-load time and shared by reference
// thereafter; it is never mutated once a Parser begins accepting input.
package symtab

import (
	"golang.org/x/text/unicode/norm"
)

// ID is a dense integer handle into one of a Table's registries. The zero
// value, InvalidID, is a sentinel returned by lookups that fail; it is never
// assigned to a real entry.
type ID int

// InvalidID is returned by any lookup that does not find a match. Unknown
// names never panic; they resolve to this sentinel so that callers can check
// it with a single comparison.
const InvalidID ID = 0

// Token is an interned (TokenType, content) pair: a lexeme together with the
// category it was lexed as. Terminal tokens carry lexeme text; nonterminal
// "tokens" appearing inside rule patterns carry empty content and exist only
// to name a grammar symbol.
type Token struct {
	Type    ID
	Content string
}

// Table is the set of registries described in spec §4.1. The lexical
// (terminal) type names are declared up front; every other type name that
// appears in a grammar is treated as a nonterminal the moment it is interned
// as a pattern symbol rather than a declared lexical type.
type Table struct {
	typeNames []string
	typeIDs   map[string]ID
	lexical   map[ID]bool

	tokensByKey map[Token]ID
	tokensByID  []Token

	ruleNames []string
	ruleIDs   map[string]ID
}

// New builds a Table whose lexical (terminal) type set is exactly
// lexicalTypes. Every other TokenType name encountered later via Intern is
// treated as a nonterminal reference.
func New(lexicalTypes []string) *Table {
	t := &Table{
		typeNames:   []string{""},
		typeIDs:     make(map[string]ID),
		lexical:     make(map[ID]bool),
		tokensByKey: make(map[Token]ID),
		tokensByID:  []Token{{}},
		ruleNames:   []string{""},
		ruleIDs:     make(map[string]ID),
	}

	for _, name := range lexicalTypes {
		id := t.internType(name)
		t.lexical[id] = true
	}

	return t
}

// normalize applies Unicode NFC normalization to lexeme content so that
// visually-identical identifiers encoded with different combining sequences
// intern to the same Token.
func normalize(content string) string {
	if content == "" {
		return content
	}
	return norm.NFC.String(content)
}

// TypeID returns the ID for a TokenType name, registering it as a new
// (initially nonterminal) type if it has not been seen. Use IsLexical to
// check whether a given ID was declared as part of the lexical prefix.
func (t *Table) TypeID(name string) ID {
	return t.internType(name)
}

func (t *Table) internType(name string) ID {
	if id, ok := t.typeIDs[name]; ok {
		return id
	}
	id := ID(len(t.typeNames))
	t.typeNames = append(t.typeNames, name)
	t.typeIDs[name] = id
	return id
}

// TypeIDOrInvalid looks up a TokenType name without registering it; unknown
// names resolve to InvalidID.
func (t *Table) TypeIDOrInvalid(name string) ID {
	if id, ok := t.typeIDs[name]; ok {
		return id
	}
	return InvalidID
}

// TypeName returns the declared name for a TokenType ID, or "" if id is out
// of range.
func (t *Table) TypeName(id ID) string {
	if int(id) < 0 || int(id) >= len(t.typeNames) {
		return ""
	}
	return t.typeNames[id]
}

// IsLexical returns whether id names a terminal (lexical) TokenType, as
// opposed to a rule-producing nonterminal.
func (t *Table) IsLexical(id ID) bool {
	return t.lexical[id]
}

// Intern registers (or finds) the token instance for the given TokenType
// name and lexeme content, returning its ID. Content is normalized to NFC
// before interning so identifiers differing only in Unicode composition
// collapse to the same instance.
func (t *Table) Intern(typeName, content string) ID {
	content = normalize(content)
	typeID := t.internType(typeName)
	key := Token{Type: typeID, Content: content}
	if id, ok := t.tokensByKey[key]; ok {
		return id
	}
	id := ID(len(t.tokensByID))
	t.tokensByID = append(t.tokensByID, key)
	t.tokensByKey[key] = id
	return id
}

// InternSymbol registers (or finds) the nonterminal "token" used to
// reference a grammar symbol by name inside a rule pattern; such a token
// always carries empty content.
func (t *Table) InternSymbol(typeName string) ID {
	return t.Intern(typeName, "")
}

// TypeOf returns the TokenType of a previously-interned token instance.
func (t *Table) TypeOf(tok ID) ID {
	if int(tok) < 0 || int(tok) >= len(t.tokensByID) {
		return InvalidID
	}
	return t.tokensByID[tok].Type
}

// ContentOf returns the lexeme content of a previously-interned token
// instance.
func (t *Table) ContentOf(tok ID) string {
	if int(tok) < 0 || int(tok) >= len(t.tokensByID) {
		return ""
	}
	return t.tokensByID[tok].Content
}

// InternRuleName registers (or finds) a rule name, returning its dense ID.
func (t *Table) InternRuleName(name string) ID {
	if id, ok := t.ruleIDs[name]; ok {
		return id
	}
	id := ID(len(t.ruleNames))
	t.ruleNames = append(t.ruleNames, name)
	t.ruleIDs[name] = id
	return id
}

// RuleNameOrInvalid looks up a rule name without registering it.
func (t *Table) RuleNameOrInvalid(name string) ID {
	if id, ok := t.ruleIDs[name]; ok {
		return id
	}
	return InvalidID
}

// RuleName returns the declared name for a rule ID, or "" if out of range.
func (t *Table) RuleName(id ID) string {
	if int(id) < 0 || int(id) >= len(t.ruleNames) {
		return ""
	}
	return t.ruleNames[id]
}

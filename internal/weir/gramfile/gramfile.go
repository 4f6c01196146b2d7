// Package gramfile loads the static grammar schema (spec §6) from a TOML
// file, the same format and FileInfo-discriminator convention
// internal/tqw uses for the teacher's world-data files.
package gramfile

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/dekarrin/weir/internal/weir/grammar"
	"github.com/dekarrin/weir/internal/weir/lex"
)

// FileInfo is the minimal header every grammar file must declare, checked
// before the rest of the file is decoded.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

const (
	expectedFormat = "weir-grammar"
	expectedType   = "GRAMMAR"
)

// ruleRecord is one [[rule]] table.
type ruleRecord struct {
	LHS      string   `toml:"lhs"`
	Name     string   `toml:"name"`
	Pattern  []string `toml:"pattern"`
	Priority int      `toml:"priority"`
	Payload  string   `toml:"payload"`
}

// lexRecord is one [[lex]] table: an ordered lexical pattern tried at the
// current input position by the reference lexer (internal/weir/lex). A
// record with an empty type is a skip rule (whitespace, comments).
type lexRecord struct {
	Type    string `toml:"type"`
	Pattern string `toml:"pattern"`
}

// fileSchema is the full decoded shape of a grammar file. The lex table is
// optional: a grammar file meant only to be loaded via gramfile.Load and
// driven with hand-built tokens need not declare one.
type fileSchema struct {
	FileInfo
	Lexical []string     `toml:"lexical"`
	Rule    []ruleRecord `toml:"rule"`
	Lex     []lexRecord  `toml:"lex"`
}

// Load reads and parses a grammar file at path, builds its rule list, and
// hands it to grammar.New. Returns whatever GrammarError grammar.New
// returns if the rules themselves are malformed, or a plain error if the
// file cannot be read or doesn't declare the expected format/type.
func Load(path string) (*grammar.Grammar, error) {
	g, _, err := LoadWithLexer(path)
	return g, err
}

// LoadWithLexer is Load, plus the compiled reference lexer built from the
// file's [[lex]] table, if it has one. lx is nil if the file declares no
// lex rules.
func LoadWithLexer(path string) (*grammar.Grammar, *lex.Lexer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read grammar file: %w", err)
	}
	return ParseWithLexer(data)
}

// Parse builds a Grammar from the bytes of a grammar file, without touching
// the filesystem.
func Parse(data []byte) (*grammar.Grammar, error) {
	g, _, err := ParseWithLexer(data)
	return g, err
}

// ParseWithLexer is Parse, plus the compiled lexer described by the file's
// [[lex]] table, if present.
func ParseWithLexer(data []byte) (*grammar.Grammar, *lex.Lexer, error) {
	var schema fileSchema
	if _, err := toml.Decode(string(data), &schema); err != nil {
		return nil, nil, fmt.Errorf("decode grammar file: %w", err)
	}

	if schema.Format != expectedFormat {
		return nil, nil, fmt.Errorf("unrecognized grammar file format %q, expected %q", schema.Format, expectedFormat)
	}
	if schema.Type != expectedType {
		return nil, nil, fmt.Errorf("unrecognized grammar file type %q, expected %q", schema.Type, expectedType)
	}

	rawRules := make([]grammar.RawRule, len(schema.Rule))
	for i, r := range schema.Rule {
		rawRules[i] = grammar.RawRule{
			LHS:      r.LHS,
			Name:     r.Name,
			Pattern:  r.Pattern,
			Priority: r.Priority,
			Payload:  []byte(r.Payload),
		}
	}

	g, err := grammar.New(rawRules, schema.Lexical)
	if err != nil {
		return nil, nil, err
	}

	if len(schema.Lex) == 0 {
		return g, nil, nil
	}

	lexRules := make([]lex.Rule, len(schema.Lex))
	for i, r := range schema.Lex {
		lexRules[i] = lex.Rule{Type: r.Type, Pattern: r.Pattern}
	}
	lx, err := lex.New(lexRules)
	if err != nil {
		return nil, nil, fmt.Errorf("build lexer: %w", err)
	}
	return g, lx, nil
}

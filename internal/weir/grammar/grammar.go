// Package grammar holds the static grammar: rule storage indexed by
// producing nonterminal (spec §4.2), plus the step-down (§4.3) and step-up
// (§4.4) tables precomputed from it.
package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/weir/internal/weir/icterr"
	"github.com/dekarrin/weir/internal/weir/symtab"
)

// topRuleLHS is the distinguished nonterminal name every grammar must
// define exactly one rule for.
const topRuleLHS = "top"

// RawRule is the grammar schema's external, string-named form (spec §6):
// one production, named and prioritized, with its pattern given as a list
// of symbol names (either a declared lexical type or another rule's LHS).
type RawRule struct {
	LHS      string
	Name     string
	Pattern  []string
	Priority int
	Payload  []byte
}

// Rule is a production translated into interned IDs: (producing
// nonterminal, rule name, priority, ordered pattern, opaque payload).
// Priority 0 means "no priority" (spec §3).
type Rule struct {
	LHS      symtab.ID
	Name     symtab.ID
	Priority int
	Pattern  []symtab.ID
	Payload  []byte
}

// CanNest reports whether a rule producing the same expression nonterminal
// as parent may legally appear nested beneath it, purely as a
// construction-time pruning hint (SPEC_FULL.md §4, supplemented feature 1).
// It never changes parse results on its own; §4.6's after-the-fact filter is
// the sole source of truth for priority violations.
func (r Rule) CanNest(parent Rule) bool {
	if r.LHS != parent.LHS {
		return true
	}
	if r.Priority != 0 && parent.Priority != 0 {
		return parent.Priority >= r.Priority
	}
	return true
}

// Grammar is the full set of rules, indexed for fast lookup by producing
// nonterminal and by rule name, along with the symbol table used to intern
// every name appearing in it.
type Grammar struct {
	Table *symtab.Table

	rules    []Rule
	byLHS    map[symtab.ID][]Rule
	byName   map[symtab.ID]Rule
	topType  symtab.ID
	topRule  Rule
}

// New builds a Grammar from raw rules and the declared lexical type set.
// Returns a GrammarError-shaped error (see internal/weir/icterr) if the
// rules are malformed: duplicate rule names, a pattern symbol that is
// neither a declared lexical type nor the LHS of any rule, a missing or
// non-unique "top" rule, or a rule exhibiting the left-recursive step-up
// shape this module rejects pending a design decision (see SPEC_FULL.md §6
// item 2).
func New(rawRules []RawRule, lexicalTypes []string) (*Grammar, error) {
	tab := symtab.New(lexicalTypes)

	g := &Grammar{
		Table:  tab,
		byLHS:  make(map[symtab.ID][]Rule),
		byName: make(map[symtab.ID]Rule),
	}

	usedNames := make(map[string]bool)
	var topRules []Rule

	for _, raw := range rawRules {
		if usedNames[raw.Name] {
			return nil, icterr.GrammarError("duplicate rule name %q", raw.Name)
		}
		usedNames[raw.Name] = true

		if len(raw.Pattern) < 1 {
			return nil, icterr.GrammarError("rule %q: pattern must have at least one symbol", raw.Name)
		}

		r := Rule{
			LHS:      tab.TypeID(raw.LHS),
			Name:     tab.InternRuleName(raw.Name),
			Priority: raw.Priority,
			Payload:  raw.Payload,
		}
		for _, symName := range raw.Pattern {
			r.Pattern = append(r.Pattern, tab.TypeID(symName))
		}

		g.rules = append(g.rules, r)
		g.byLHS[r.LHS] = append(g.byLHS[r.LHS], r)
		g.byName[r.Name] = r

		if raw.LHS == topRuleLHS {
			topRules = append(topRules, r)
		}
	}

	if len(topRules) == 0 {
		return nil, icterr.GrammarError("grammar declares no rule with LHS %q", topRuleLHS)
	}
	if len(topRules) > 1 {
		return nil, icterr.GrammarError("grammar declares %d rules with LHS %q, exactly one is required", len(topRules), topRuleLHS)
	}
	g.topType = tab.TypeID(topRuleLHS)
	g.topRule = topRules[0]

	// Every pattern symbol must be either a declared lexical type or the
	// LHS of at least one rule (spec §6 constraints).
	for _, r := range g.rules {
		for _, sym := range r.Pattern {
			if tab.IsLexical(sym) {
				continue
			}
			if _, ok := g.byLHS[sym]; ok {
				continue
			}
			return nil, icterr.GrammarError("rule %q: symbol %q is neither a declared lexical type nor the LHS of any rule",
				tab.RuleName(r.Name), tab.TypeName(sym))
		}
	}

	// Reject the left-recursive step-up shape the spec leaves unresolved:
	// a rule whose first AND second pattern symbols are both its own LHS
	// (e.g. "X -> X X ..."), which would make step-up construction for X
	// recursively depend on itself.
	for _, r := range g.rules {
		if len(r.Pattern) >= 2 && r.Pattern[0] == r.LHS && r.Pattern[1] == r.LHS {
			return nil, icterr.GrammarError("rule %q: left-recursive step-up shape (LHS %q appears as both of the first two pattern symbols) is rejected pending a design decision",
				tab.RuleName(r.Name), tab.TypeName(r.LHS))
		}
	}

	return g, nil
}

// IsNonterminal reports whether typeID is the LHS of at least one rule.
func (g *Grammar) IsNonterminal(typeID symtab.ID) bool {
	_, ok := g.byLHS[typeID]
	return ok
}

// RulesFor returns every rule whose LHS is lhs, in the order they were
// declared.
func (g *Grammar) RulesFor(lhs symtab.ID) []Rule {
	return g.byLHS[lhs]
}

// Rule looks up a rule by its interned name ID.
func (g *Grammar) Rule(name symtab.ID) (Rule, bool) {
	r, ok := g.byName[name]
	return r, ok
}

// Top returns the grammar's single "top" rule.
func (g *Grammar) Top() Rule {
	return g.topRule
}

// TopType returns the interned TokenType ID for "top".
func (g *Grammar) TopType() symtab.ID {
	return g.topType
}

// Rules returns every rule in declaration order.
func (g *Grammar) Rules() []Rule {
	out := make([]Rule, len(g.rules))
	copy(out, g.rules)
	return out
}

// String gives a deterministic listing of the grammar's nonterminals, one
// line per LHS in ID order with its rule names sorted alphabetically,
// suitable for comparison in tests.
func (g *Grammar) String() string {
	keys := make([]symtab.ID, 0, len(g.byLHS))
	for k := range g.byLHS {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var sb strings.Builder
	for _, lhs := range keys {
		rs := g.byLHS[lhs]
		names := make([]string, len(rs))
		for i, r := range rs {
			names[i] = g.Table.RuleName(r.Name)
		}
		sort.Strings(names)
		fmt.Fprintf(&sb, "%s -> %s\n", g.Table.TypeName(lhs), strings.Join(names, " | "))
	}
	return sb.String()
}

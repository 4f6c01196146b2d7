// Package pretty renders a parse tree for debugging (spec §6's
// Tree.pretty). The caret marking the current work frontier on an
// in-progress (not yet finished) tree is adapted from the original
// prototype's Node::ToStringPretty (original_source/parser.h); the
// single-line legend table is built with github.com/dekarrin/rosed, the
// same library the teacher uses for its own tabular debug output.
package pretty

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/weir/internal/weir/grammar"
	"github.com/dekarrin/weir/internal/weir/tree"
)

// Printer renders Nodes using a Grammar's symbol table to resolve names.
type Printer struct {
	g *grammar.Grammar
}

// New builds a Printer bound to g's symbol table.
func New(g *grammar.Grammar) *Printer {
	return &Printer{g: g}
}

// Tree renders n and its whole subtree. If multiline is false, the tree is
// rendered on a single line with parenthesized children; if true, each
// nesting level is placed on its own indented line. In both forms, a node
// that is in frontier is marked with a caret as a current work pointer.
func (p *Printer) Tree(n *tree.Node, multiline bool, frontier map[*tree.Node]bool) string {
	if multiline {
		var sb strings.Builder
		p.writeMultiline(&sb, n, 0, frontier)
		return sb.String()
	}
	return p.writeSingleLine(n, frontier)
}

func (p *Printer) writeSingleLine(n *tree.Node, frontier map[*tree.Node]bool) string {
	name := p.g.Table.RuleName(n.Rule.Name)
	marker := ""
	if frontier[n] {
		marker = "^"
	}

	var parts []string
	for _, slot := range n.Parsed {
		switch slot.Kind {
		case tree.SlotLexed:
			parts = append(parts, p.g.Table.TypeName(slot.LexedType))
		case tree.SlotSub:
			var alts []string
			for _, child := range slot.SubChildren {
				alts = append(alts, p.writeSingleLine(child, frontier))
			}
			parts = append(parts, strings.Join(alts, " | "))
		}
	}
	return fmt.Sprintf("%s%s(%s)", name, marker, strings.Join(parts, " "))
}

func (p *Printer) writeMultiline(sb *strings.Builder, n *tree.Node, depth int, frontier map[*tree.Node]bool) {
	indent := strings.Repeat("  ", depth)
	name := p.g.Table.RuleName(n.Rule.Name)
	marker := ""
	if frontier[n] {
		marker = " ^"
	}
	fmt.Fprintf(sb, "%s%s%s\n", indent, name, marker)

	for _, slot := range n.Parsed {
		switch slot.Kind {
		case tree.SlotLexed:
			fmt.Fprintf(sb, "%s  %s\n", indent, p.g.Table.TypeName(slot.LexedType))
		case tree.SlotSub:
			for _, child := range slot.SubChildren {
				p.writeMultiline(sb, child, depth+1, frontier)
			}
		}
	}
}

// Summary renders a one-line-per-candidate legend (candidate index, root
// rule name, root completion state) as a table, for the CLI's verbose
// diagnostics.
func Summary(g *grammar.Grammar, candidates []*tree.Candidate) string {
	headers := []string{"candidate", "root rule", "complete"}
	data := [][]string{headers}

	for i, c := range candidates {
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			g.Table.RuleName(c.Root.Rule.Name),
			fmt.Sprintf("%v", c.Root.Complete()),
		})
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 80, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// FrontierSet converts a candidate's work-pointer set into the map form
// Tree expects for caret-marking.
func FrontierSet(c *tree.Candidate) map[*tree.Node]bool {
	out := make(map[*tree.Node]bool, c.W.Len())
	for w := range c.W {
		out[w] = true
	}
	return out
}

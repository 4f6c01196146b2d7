package grammar

import "github.com/dekarrin/weir/internal/weir/symtab"

// StepDownKey identifies one step-down table bucket: an incoming lexeme
// type together with the nonterminal a work-pointer needs to produce.
type StepDownKey struct {
	Lexed  symtab.ID
	Target symtab.ID
}

// StepDownTable is the multimap described in spec §4.3: for a (lexeme type,
// target nonterminal) pair, every stack of rule applications that descends
// from the target down to a rule whose leftmost pattern token is that
// lexeme type. Distinct stacks reaching the same key are all retained so
// that the ambiguity they represent survives into parsing.
type StepDownTable map[StepDownKey][][]Rule

// stepDownFrame is one unit of work in the explicit-stack DFS BuildStepDown
// runs, kept as a value (not a Go call frame) so construction cost on
// pathological grammars is bounded by queue length rather than Go stack
// depth.
type stepDownFrame struct {
	stack []Rule
}

// BuildStepDown precomputes g's step-down table. For every rule r, descent
// starts with stack = [r] and target = r.LHS; at each step the leftmost
// pattern symbol of the stack's top rule is inspected. If it is terminal,
// the stack is recorded under (that terminal's type, target). Otherwise
// descent continues into every rule producing that symbol, guarded against
// left recursion (a candidate extension is dropped if any rule already on
// the stack shares the LHS being descended into) and pruned by
// Rule.CanNest: a candidate extension whose priority can never legally
// nest beneath the rule above it on the stack is dropped before it is
// ever queued, since §4.6's after-the-fact operator-priority filter would
// reject the stack it would have produced anyway.
func BuildStepDown(g *Grammar) StepDownTable {
	table := make(StepDownTable)

	var worklist []stepDownFrame
	for _, r := range g.Rules() {
		worklist = append(worklist, stepDownFrame{stack: []Rule{r}})
	}

	for len(worklist) > 0 {
		n := len(worklist) - 1
		f := worklist[n]
		worklist = worklist[:n]

		cur := f.stack[len(f.stack)-1]
		first := cur.Pattern[0]
		target := f.stack[0].LHS

		if g.Table.IsLexical(first) {
			key := StepDownKey{Lexed: first, Target: target}
			stackCopy := make([]Rule, len(f.stack))
			copy(stackCopy, f.stack)
			table[key] = append(table[key], stackCopy)
			continue
		}

		alreadyOnStack := false
		for _, s := range f.stack {
			if s.LHS == first {
				alreadyOnStack = true
				break
			}
		}
		if alreadyOnStack {
			continue
		}

		for _, next := range g.RulesFor(first) {
			if !next.CanNest(cur) {
				continue
			}
			newStack := make([]Rule, len(f.stack)+1)
			copy(newStack, f.stack)
			newStack[len(f.stack)] = next
			worklist = append(worklist, stepDownFrame{stack: newStack})
		}
	}

	return table
}

/*
Weircli parses a single input file against a grammar file and prints the
resulting parse tree, or reports a syntax error at the position it was
found.

Usage:

	weircli -g GRAMMAR [flags] [FILE]

The flags are:

	-v, --version
		Give the current version of weir and then exit.

	-g, --grammar FILE
		The TOML grammar file to parse input against. Required; must declare
		a [[lex]] table since weircli drives the reference lexer itself.

	-m, --multiline
		Print the resulting tree one node per indented line instead of on a
		single line.

	-t, --trace
		Print one diagnostic line per significant engine action to stderr
		while parsing.

	-i, --interactive
		Instead of lexing and feeding a whole file at once, start a
		line-edited REPL: each line is "TYPE [CONTENT]" and is fed to the
		session as one token. ":finish" ends the session and prints the
		resulting tree (or reports the error), starting a fresh session
		immediately after; ":quit" exits.

If FILE is omitted, input is read from stdin. -i ignores FILE and always
reads from the terminal.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/dekarrin/weir"
	"github.com/dekarrin/weir/internal/version"
	"github.com/dekarrin/weir/internal/weir/gramfile"
	"github.com/dekarrin/weir/internal/weir/lex"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInitError indicates the grammar file or its lexer failed to load.
	ExitInitError

	// ExitReadError indicates the input file could not be read.
	ExitReadError

	// ExitLexError indicates the reference lexer could not tokenize input.
	ExitLexError

	// ExitParseError indicates a syntax error or an ambiguous/incomplete
	// parse was reported once input was exhausted.
	ExitParseError
)

var (
	returnCode   int     = ExitSuccess
	flagVersion  *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	grammarFile  *string = pflag.StringP("grammar", "g", "", "The TOML grammar file to parse input against")
	multiline    *bool   = pflag.BoolP("multiline", "m", false, "Print the tree one node per indented line")
	traceEnabled *bool   = pflag.BoolP("trace", "t", false, "Print engine diagnostics to stderr while parsing")
	interactive  *bool   = pflag.BoolP("interactive", "i", false, "Start a line-edited REPL instead of parsing a whole file")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if *grammarFile == "" {
		fmt.Fprintln(os.Stderr, "ERROR: -g/--grammar is required")
		returnCode = ExitInitError
		return
	}

	g, lx, err := gramfile.LoadWithLexer(*grammarFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	if lx == nil {
		fmt.Fprintln(os.Stderr, "ERROR: grammar file declares no [[lex]] table")
		returnCode = ExitInitError
		return
	}

	p := weir.New(g)
	if *traceEnabled {
		p.Trace(func(line string) {
			fmt.Fprintln(os.Stderr, line)
		})
	}

	if *interactive {
		if err := runInteractive(p); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitReadError
		}
		return
	}

	src, err := readInput()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitReadError
		return
	}

	toks, err := lx.LexAll(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitLexError
		return
	}

	tree, err := parseAll(p, toks)
	if err != nil {
		reportParseError(err)
		returnCode = ExitParseError
		return
	}

	fmt.Println(tree.Pretty(*multiline))
}

// runInteractive drives p one token per line of terminal input, the same
// line-edited-reader idea as the teacher's internal/input.InteractiveCommandReader
// (minus the command-game framing, since this REPL feeds tokens, not game
// commands). Each line is "TYPE [CONTENT]"; ":finish" ends the current
// session and immediately starts a new one so the REPL keeps running, and
// ":quit" (or EOF) exits.
func runInteractive(p *weir.Parser) error {
	rl, err := readline.NewEx(&readline.Config{Prompt: "weir> "})
	if err != nil {
		return fmt.Errorf("create readline session: %w", err)
	}
	defer rl.Close()

	s := p.Start()
	line := 1

	for {
		input, err := rl.Readline()
		if err != nil {
			return nil
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		switch input {
		case ":quit":
			return nil
		case ":finish":
			trees, err := s.Finish()
			if err != nil {
				reportParseError(err)
			} else {
				fmt.Println(trees[0].Pretty(*multiline))
			}
			s = p.Start()
			line = 1
			continue
		}

		typ, content, _ := strings.Cut(input, " ")
		if err := s.Feed(weir.Token{Type: typ, Content: content, Line: line, Column: 1}); err != nil {
			reportParseError(err)
			// Feed's contract (weir.Session.Feed) is that the session must
			// be discarded once it errors; start clean rather than keep
			// feeding a session whose token log and live candidates are now
			// out of step.
			s = p.Start()
			line = 1
			continue
		}
		line++
	}
}

func readInput() (string, error) {
	args := pflag.Args()
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(args[0])
	return string(data), err
}

func parseAll(p *weir.Parser, toks []lex.Token) (*weir.Tree, error) {
	s := p.Start()
	for _, t := range toks {
		if err := s.Feed(weir.Token{
			Type:    t.Type,
			Content: t.Content,
			Line:    t.Line,
			Column:  t.Column,
		}); err != nil {
			return nil, err
		}
	}

	trees, err := s.Finish()
	if err != nil {
		return nil, err
	}
	return trees[0], nil
}

func reportParseError(err error) {
	if line, col, tokenType, ok := weir.IsSyntaxError(err); ok {
		fmt.Fprintf(os.Stderr, "ERROR: syntax error at line %d, column %d: unexpected %s\n", line, col, tokenType)
		return
	}
	if count, ok := weir.IsAmbiguousParse(err); ok {
		fmt.Fprintf(os.Stderr, "ERROR: ambiguous parse: %d candidates completed\n", count)
		return
	}
	if weir.IsIncompleteParse(err) {
		fmt.Fprintln(os.Stderr, "ERROR: incomplete parse: input ended mid-derivation")
		return
	}
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
}

package gramfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validFile = `
format = "weir-grammar"
type = "GRAMMAR"
lexical = ["TRUE", "NUM", "DASH"]

[[rule]]
lhs = "top"
name = "top_expr"
pattern = ["expr"]

[[rule]]
lhs = "expr"
name = "expr_true"
pattern = ["TRUE"]

[[rule]]
lhs = "expr"
name = "expr_sub"
pattern = ["expr", "DASH", "expr"]
priority = 4
`

func Test_Parse_ValidFile_BuildsGrammar(t *testing.T) {
	assert := assert.New(t)
	g, err := Parse([]byte(validFile))
	require.NoError(t, err)

	assert.Equal("top_expr", g.Table.RuleName(g.Top().Name))
	assert.True(g.Table.IsLexical(g.Table.TypeID("NUM")))
	assert.Len(g.RulesFor(g.Table.TypeID("expr")), 2)
}

func Test_Parse_WrongFormat_Errors(t *testing.T) {
	bad := `
format = "something-else"
type = "GRAMMAR"
lexical = ["NUM"]

[[rule]]
lhs = "top"
name = "top"
pattern = ["NUM"]
`
	_, err := Parse([]byte(bad))
	assert.Error(t, err)
}

func Test_Parse_WrongType_Errors(t *testing.T) {
	bad := `
format = "weir-grammar"
type = "NOT-A-GRAMMAR"
lexical = ["NUM"]

[[rule]]
lhs = "top"
name = "top"
pattern = ["NUM"]
`
	_, err := Parse([]byte(bad))
	assert.Error(t, err)
}

func Test_Parse_MalformedGrammar_PropagatesGrammarError(t *testing.T) {
	noTop := `
format = "weir-grammar"
type = "GRAMMAR"
lexical = ["NUM"]

[[rule]]
lhs = "expr"
name = "num_expr"
pattern = ["NUM"]
`
	_, err := Parse([]byte(noTop))
	assert.Error(t, err)
}

func Test_Load_MissingFile_Errors(t *testing.T) {
	_, err := Load("/nonexistent/path/to/grammar.toml")
	assert.Error(t, err)
}

const fileWithLexTable = validFile + `
[[lex]]
type = ""
pattern = "\\s+"

[[lex]]
type = "TRUE"
pattern = "true"

[[lex]]
type = "NUM"
pattern = "[0-9]+"

[[lex]]
type = "DASH"
pattern = "-"
`

func Test_ParseWithLexer_BuildsBothGrammarAndLexer(t *testing.T) {
	assert := assert.New(t)
	g, lx, err := ParseWithLexer([]byte(fileWithLexTable))
	require.NoError(t, err)
	require.NotNil(t, lx)

	toks, err := lx.LexAll("5 - true")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.True(g.Table.IsLexical(g.Table.TypeID("NUM")))
}

func Test_ParseWithLexer_NoLexTable_ReturnsNilLexer(t *testing.T) {
	_, lx, err := ParseWithLexer([]byte(validFile))
	require.NoError(t, err)
	assert.Nil(t, lx)
}

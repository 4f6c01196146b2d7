package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/weir/internal/weir/symtab"
)

func arithLexer(t *testing.T) *Lexer {
	t.Helper()
	lx, err := New([]Rule{
		{Type: "", Pattern: `\s+`},
		{Type: "NUM", Pattern: `[0-9]+`},
		{Type: "DASH", Pattern: `-`},
		{Type: "TRUE", Pattern: `true`},
	})
	require.NoError(t, err)
	return lx
}

func Test_LexAll_SkipsWhitespaceAndProducesTypedTokens(t *testing.T) {
	assert := assert.New(t)
	lx := arithLexer(t)

	toks, err := lx.LexAll("5 - 10 - 1")
	require.NoError(t, err)
	require.Len(t, toks, 5)
	assert.Equal("NUM", toks[0].Type)
	assert.Equal("5", toks[0].Content)
	assert.Equal("DASH", toks[1].Type)
	assert.Equal("NUM", toks[2].Type)
	assert.Equal("10", toks[2].Content)
}

func Test_LexAll_TracksLineAndColumn(t *testing.T) {
	assert := assert.New(t)
	lx := arithLexer(t)

	toks, err := lx.LexAll("5\ntrue")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(1, toks[0].Line)
	assert.Equal(1, toks[0].Column)
	assert.Equal(2, toks[1].Line)
	assert.Equal(1, toks[1].Column)
}

func Test_LexAll_FirstMatchingLongestWinsAtPosition(t *testing.T) {
	assert := assert.New(t)
	lx, err := New([]Rule{
		{Type: "TRUE", Pattern: `true`},
		{Type: "IDENT", Pattern: `[a-z]+`},
	})
	require.NoError(t, err)

	toks, err := lx.LexAll("true")
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal("TRUE", toks[0].Type)
}

func Test_LexAll_ErrorsOnUnmatchedInput(t *testing.T) {
	lx := arithLexer(t)
	_, err := lx.LexAll("5 @ 10")
	assert.Error(t, err)
}

func Test_InternAll_ProducesOneIDPerToken(t *testing.T) {
	assert := assert.New(t)
	lx := arithLexer(t)
	toks, err := lx.LexAll("5 - 5")
	require.NoError(t, err)

	tab := symtab.New([]string{"NUM", "DASH"})
	ids := InternAll(tab, toks)
	require.Len(t, ids, 3)
	assert.Equal(ids[0], ids[2])
	assert.NotEqual(ids[0], ids[1])
}

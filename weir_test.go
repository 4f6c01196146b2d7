package weir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/weir/internal/weir/grammar"
)

func boolArithGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	g, err := grammar.New([]grammar.RawRule{
		{LHS: "top", Name: "top_expr", Pattern: []string{"expr"}},
		{LHS: "expr", Name: "expr_true", Pattern: []string{"true_expr"}},
		{LHS: "expr", Name: "expr_num", Pattern: []string{"num_expr"}},
		{LHS: "expr", Name: "expr_sub", Pattern: []string{"expr", "DASH", "expr"}, Priority: 4},
		{LHS: "true_expr", Name: "true_lit", Pattern: []string{"TRUE"}},
		{LHS: "num_expr", Name: "num_lit", Pattern: []string{"NUM"}},
	}, []string{"TRUE", "NUM", "DASH"})
	require.NoError(t, err)
	return g
}

func Test_Parser_FeedsToCompleteTree(t *testing.T) {
	assert := assert.New(t)
	p := New(boolArithGrammar(t))
	s := p.Start()

	require.NoError(t, s.Feed(Token{Type: "TRUE", Content: "true", Line: 1, Column: 1}))

	trees, err := s.Finish()
	assert.NoError(err)
	require.Len(t, trees, 1)
	assert.True(trees[0].Root().Complete())
}

func Test_Parser_SubtractionChain_YieldsOneUnambiguousTree(t *testing.T) {
	assert := assert.New(t)
	p := New(boolArithGrammar(t))
	s := p.Start()

	feed := []Token{
		{Type: "NUM", Content: "5", Line: 1, Column: 1},
		{Type: "DASH", Content: "-", Line: 1, Column: 2},
		{Type: "NUM", Content: "10", Line: 1, Column: 3},
		{Type: "DASH", Content: "-", Line: 1, Column: 5},
		{Type: "NUM", Content: "1", Line: 1, Column: 6},
	}
	for _, tok := range feed {
		require.NoError(t, s.Feed(tok))
	}

	trees, err := s.Finish()
	assert.NoError(err)
	require.Len(t, trees, 1)

	root := trees[0].Root()
	lexed, subs := root.Children()
	assert.Empty(lexed)
	require.Len(t, subs, 1)
	require.Len(t, subs[0], 1)
	assert.Equal("expr_sub", subs[0][0].RuleName())
}

func Test_Parser_SyntaxErrorReportsPosition(t *testing.T) {
	assert := assert.New(t)
	p := New(boolArithGrammar(t))
	s := p.Start()

	require.NoError(t, s.Feed(Token{Type: "TRUE", Content: "true", Line: 1, Column: 1}))
	require.NoError(t, s.Feed(Token{Type: "DASH", Content: "-", Line: 1, Column: 6}))
	require.NoError(t, s.Feed(Token{Type: "TRUE", Content: "true", Line: 1, Column: 8}))

	err := s.Feed(Token{Type: "NUM", Content: "1", Line: 2, Column: 1})
	require.Error(t, err)
	line, col, tokenType, ok := IsSyntaxError(err)
	assert.True(ok)
	assert.Equal(2, line)
	assert.Equal(1, col)
	assert.Equal("NUM", tokenType)
}

func Test_Parser_Pretty_RendersSingleLineAndMultiline(t *testing.T) {
	assert := assert.New(t)
	p := New(boolArithGrammar(t))
	s := p.Start()
	require.NoError(t, s.Feed(Token{Type: "TRUE", Content: "true", Line: 1, Column: 1}))

	trees, err := s.Finish()
	require.NoError(t, err)
	require.Len(t, trees, 1)

	single := trees[0].Pretty(false)
	multi := trees[0].Pretty(true)
	assert.NotEmpty(single)
	assert.NotEmpty(multi)
	assert.NotEqual(single, multi)
}

func Test_Parser_RegisterFilter_CanRejectACandidate(t *testing.T) {
	assert := assert.New(t)
	p := New(boolArithGrammar(t))
	p.RegisterFilter(func(g *grammar.Grammar, completed *Node) bool {
		return completed.RuleName() != "num_lit"
	})
	s := p.Start()

	err := s.Feed(Token{Type: "NUM", Content: "1", Line: 1, Column: 1})
	require.Error(t, err)
	_, _, _, ok := IsSyntaxError(err)
	assert.True(ok)
}

package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Table_TypeBijection(t *testing.T) {
	testCases := []struct {
		name  string
		types []string
	}{
		{name: "empty lexical set", types: nil},
		{name: "single type", types: []string{"IDENT"}},
		{name: "several types", types: []string{"IDENT", "PLUS", "NUM", "LPAREN"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			tab := New(tc.types)

			for _, name := range tc.types {
				id := tab.TypeID(name)
				assert.Equal(name, tab.TypeName(id), "name_of(id_of(%q)) should round-trip", name)
				assert.True(tab.IsLexical(id), "declared lexical type %q should be lexical", name)
			}
		})
	}
}

func Test_Table_TokenInstanceBijection(t *testing.T) {
	assert := assert.New(t)

	tab := New([]string{"IDENT", "NUM"})

	type key struct {
		typeName, content string
	}
	cases := []key{
		{"IDENT", "foo"},
		{"IDENT", "bar"},
		{"NUM", "42"},
		{"NUM", ""},
	}

	for _, c := range cases {
		id := tab.Intern(c.typeName, c.content)
		assert.Equal(c.content, tab.ContentOf(id))
		assert.Equal(tab.TypeID(c.typeName), tab.TypeOf(id))
	}
}

func Test_Table_Intern_IsIdempotent(t *testing.T) {
	assert := assert.New(t)

	tab := New([]string{"IDENT"})

	id1 := tab.Intern("IDENT", "hello")
	id2 := tab.Intern("IDENT", "hello")
	assert.Equal(id1, id2)

	id3 := tab.Intern("IDENT", "world")
	assert.NotEqual(id1, id3)
}

func Test_Table_UnicodeNormalization_Collapses(t *testing.T) {
	assert := assert.New(t)

	tab := New([]string{"IDENT"})

	// "é" as a single codepoint (NFC) vs "e" + combining acute (NFD) must
	// intern to the same token instance.
	nfc := "é"
	nfd := "é"

	id1 := tab.Intern("IDENT", nfc)
	id2 := tab.Intern("IDENT", nfd)
	assert.Equal(id1, id2)
}

func Test_Table_UnknownNamesResolveToInvalidID(t *testing.T) {
	assert := assert.New(t)

	tab := New([]string{"IDENT"})

	assert.Equal(InvalidID, tab.TypeIDOrInvalid("NEVER_DECLARED"))
	assert.Equal(InvalidID, tab.RuleNameOrInvalid("no_such_rule"))
}

func Test_Table_NonterminalTypesAreNotLexical(t *testing.T) {
	assert := assert.New(t)

	tab := New([]string{"NUM"})

	exprID := tab.TypeID("expr")
	assert.False(tab.IsLexical(exprID))
	assert.True(tab.IsLexical(tab.TypeID("NUM")))
}

func Test_Table_RuleNameBijection(t *testing.T) {
	assert := assert.New(t)

	tab := New(nil)

	id := tab.InternRuleName("plus_expr")
	assert.Equal("plus_expr", tab.RuleName(id))
	assert.Equal(id, tab.InternRuleName("plus_expr"))
}

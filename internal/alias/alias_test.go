package alias

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupAndArgv(t *testing.T) {
	c, ok := Lookup("ia")
	require.True(t, ok)
	assert.Equal(t, []string{"add", "."}, c.Argv(nil))
	assert.Equal(t, []string{"add", "a.go", "b.go"}, c.Argv([]string{"a.go", "b.go"}))
	assert.Equal(t, "git add", c.Template())

	_, ok = Lookup("IA")
	assert.False(t, ok, "aliases are case sensitive")
}

func TestArgvDoesNotAlias(t *testing.T) {
	c, _ := Lookup("bc")
	first := c.Argv([]string{"x"})
	second := c.Argv([]string{"y"})
	assert.Equal(t, []string{"checkout", "-b", "x"}, first)
	assert.Equal(t, []string{"checkout", "-b", "y"}, second)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "git add: adds file contents to the index (default: all files).", Describe("ia"))
	assert.Equal(t, "git add: adds file contents to the index interactively.", Describe("iA"))
	assert.Equal(t, "", Describe("nope"))
}

func TestTableIsConsistent(t *testing.T) {
	seen := map[string]bool{}
	cats := map[Category]bool{}
	for _, c := range Categories {
		cats[c] = true
	}
	for _, c := range All() {
		assert.False(t, seen[c.Alias], "duplicate alias %s", c.Alias)
		seen[c.Alias] = true
		assert.NotEmpty(t, c.Args, c.Alias)
		assert.NotEmpty(t, c.Help, c.Alias)
		assert.True(t, cats[c.Category], "unknown category for %s", c.Alias)
	}
	total := 0
	for _, cs := range ByCategory() {
		total += len(cs)
	}
	assert.Equal(t, len(All()), total)
}

func TestSuggest(t *testing.T) {
	got := Suggest("lc", 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "lc", got[0])

	got = Suggest("wq", 3)
	assert.LessOrEqual(t, len(got), 3)
	for _, a := range got {
		assert.Equal(t, byte('w'), a[0])
	}

	assert.Nil(t, Suggest("", 3))
	assert.Nil(t, Suggest("b", 0))
}

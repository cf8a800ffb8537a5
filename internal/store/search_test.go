package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripAccents(t *testing.T) {
	assert.Equal(t, "maria", StripAccents("María"))
	assert.Equal(t, "nino", StripAccents("Niño"))
	assert.Equal(t, "jose maria", StripAccents("José María"))
	assert.Equal(t, "uber", StripAccents("Über"))
}

func TestStripAccentsIdempotent(t *testing.T) {
	terms := []string{"María", "Ñandú", "canción", "plain"}
	for _, term := range terms {
		once := StripAccents(term)
		assert.Equal(t, once, StripAccents(once), "stripping %q twice changed the result", term)
	}
}

func TestSearchVariantsPlainTerm(t *testing.T) {
	got := SearchVariants("maria")

	// Literal, stripped (deduped against the literal here), and one
	// re-accented variant per vowel position.
	assert.Equal(t, []string{"maria", "mária", "maría", "mariá"}, got)
}

func TestSearchVariantsAccentedTerm(t *testing.T) {
	got := SearchVariants("María")

	assert.Contains(t, got, "maría")
	assert.Contains(t, got, "maria")
	assert.Equal(t, "maría", got[0], "the literal lowercased term comes first")
}

func TestSearchVariantsEnye(t *testing.T) {
	got := SearchVariants("nino")
	assert.Contains(t, got, "ñino")
	assert.Contains(t, got, "niño")
}

func TestSearchVariantsNoDuplicates(t *testing.T) {
	got := SearchVariants("maría")
	seen := map[string]bool{}
	for _, v := range got {
		assert.False(t, seen[v], "duplicate variant %q", v)
		seen[v] = true
	}
}

func TestSearchVariantsEmpty(t *testing.T) {
	assert.Nil(t, SearchVariants(""))
	assert.Nil(t, SearchVariants("   "))
}

package store

import "strings"

// accentOf maps each plain character to its accented Spanish form.
var accentOf = map[rune]rune{
	'a': 'á',
	'e': 'é',
	'i': 'í',
	'o': 'ó',
	'u': 'ú',
	'n': 'ñ',
}

// plainOf maps accented characters back to their stripped form.
var plainOf = map[rune]rune{
	'á': 'a', 'à': 'a', 'ä': 'a',
	'é': 'e', 'è': 'e', 'ë': 'e',
	'í': 'i', 'ì': 'i', 'ï': 'i',
	'ó': 'o', 'ò': 'o', 'ö': 'o',
	'ú': 'u', 'ù': 'u', 'ü': 'u',
	'ñ': 'n',
}

// StripAccents lowercases the term and replaces accented characters with
// their plain equivalents. Stripping an already-stripped term is a no-op.
func StripAccents(term string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(term) {
		if p, ok := plainOf[r]; ok {
			b.WriteRune(p)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SearchVariants expands a free-text term into the set of spellings matched
// against the database: the literal term, the accent-stripped term, and one
// variant per vowel/ñ position with that single character re-accented.
//
// A term whose match would need two accented characters at once is not
// covered; callers accept that under-match.
func SearchVariants(term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	seen := map[string]bool{}
	variants := []string{}
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}

	add(term)
	stripped := StripAccents(term)
	add(stripped)

	runes := []rune(stripped)
	for i, r := range runes {
		acc, ok := accentOf[r]
		if !ok {
			continue
		}
		v := make([]rune, len(runes))
		copy(v, runes)
		v[i] = acc
		add(string(v))
	}

	return variants
}

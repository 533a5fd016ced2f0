package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	baseNameSimilarity = 0.85
	fullNameSimilarity = 0.90
)

var (
	npkFormulaRe   = regexp.MustCompile(`\d+-\d+-\d+`)
	percentTokenRe = regexp.MustCompile(`\d+%`)
	bareNumberRe   = regexp.MustCompile(`\d+`)
	numberRunRe    = regexp.MustCompile(`\d+(?:-\d+)*`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// NormalizeName lowercases, strips diacritics and collapses whitespace.
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(folded, " "))
}

// ExtractFormula returns the product's numeric signature: the first NPK
// triplet ("20-05-20"), else the percent tokens, else all bare numbers.
func ExtractFormula(name string) string {
	n := NormalizeName(name)
	if f := npkFormulaRe.FindString(n); f != "" {
		return f
	}
	if tokens := percentTokenRe.FindAllString(n, -1); len(tokens) > 0 {
		return strings.Join(tokens, "")
	}
	return strings.Join(bareNumberRe.FindAllString(n, -1), "")
}

// ExtractBaseName is the normalized name without numbers, dash-number runs and percent signs.
func ExtractBaseName(name string) string {
	n := numberRunRe.ReplaceAllString(NormalizeName(name), "")
	n = strings.ReplaceAll(n, "%", "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(n, " "))
}

// Similarity is 1 - levenshtein(a, b) / max(len(a), len(b)), counted in runes.
func Similarity(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if l := utf8.RuneCountInString(b); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

// nameKey caches the derived forms of a product name.
type nameKey struct {
	normalized string
	formula    string
	base       string
}

func newNameKey(name string) nameKey {
	return nameKey{
		normalized: NormalizeName(name),
		formula:    ExtractFormula(name),
		base:       ExtractBaseName(name),
	}
}

func (a nameKey) similarTo(b nameKey) bool {
	// Names that normalize to nothing never match, not even each other.
	if a.normalized == "" || b.normalized == "" {
		return false
	}
	if a.normalized == b.normalized {
		return true
	}
	// Diverging formulas veto the match: NPK 10-10-10 is not NPK 20-20-20.
	if a.formula != "" && b.formula != "" && a.formula != b.formula {
		return false
	}
	if a.base == "" || b.base == "" {
		return Similarity(a.normalized, b.normalized) >= fullNameSimilarity
	}
	return Similarity(a.base, b.base) >= baseNameSimilarity
}

// AreSimilar reports whether two product names belong to the same product.
func AreSimilar(nameA, nameB string) bool {
	return newNameKey(nameA).similarTo(newNameKey(nameB))
}

// NameGroup is one cluster produced by GroupByName, keyed by the name of its
// first member.
type NameGroup[T any] struct {
	Key   string
	Items []T
}

// GroupByName clusters items greedily in input order: each item joins the
// first existing group whose key name is similar to its own, or starts a new
// one. The result depends on the order of items; callers that need stable
// groups must sort first.
func GroupByName[T any](items []T, name func(T) string) []NameGroup[T] {
	var (
		groups []NameGroup[T]
		keys   []nameKey
	)
	for _, item := range items {
		k := newNameKey(name(item))
		joined := false
		for i := range groups {
			if keys[i].similarTo(k) {
				groups[i].Items = append(groups[i].Items, item)
				joined = true
				break
			}
		}
		if !joined {
			groups = append(groups, NameGroup[T]{Key: name(item), Items: []T{item}})
			keys = append(keys, k)
		}
	}
	return groups
}

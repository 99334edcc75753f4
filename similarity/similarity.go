// Package similarity clusters loosely related filenames and titles by token overlap. It knows nothing about
// provider IDs; two names are "similar" purely on the words they share.
//
// Names are expected to follow the archive's "{title}_{subreddit}_{author}" convention where positional
// extraction is involved, but every function degrades to a sensible empty result for names that don't.
package similarity

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/alanbriolat/media-archiver/generic"
	"github.com/alanbriolat/media-archiver/storage"
	"github.com/alanbriolat/media-archiver/util"
)

const DefaultThreshold = 0.7

// A Result describes how similar two names are. Similarity is in [0, 1].
type Result struct {
	Similarity  float64
	CommonParts []string
	Differences []string
}

// Tokens normalizes name into its token sequence: media extension dropped, lower-cased, diacritics and punctuation
// removed, split on runs of whitespace and underscores.
func Tokens(name string) []string {
	name = strings.TrimSpace(name)
	if storage.HasMediaExtension(name) {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	name = strings.ToLower(util.Transliterate(name))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '_' || unicode.IsSpace(r):
			return ' '
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		default:
			return -1
		}
	}, name)
	return strings.Fields(name)
}

// Normalize returns the tokens of name joined with underscores.
func Normalize(name string) string {
	return strings.Join(Tokens(name), "_")
}

// CalculateSimilarity scores a against b as the number of matching token positions over the longer token
// sequence. A position matches if it holds the same token in both, or a token that appears anywhere in the other
// name. Positions are counted on both sides and the higher count is used, so the score is symmetric.
func CalculateSimilarity(a, b string) Result {
	ta, tb := Tokens(a), Tokens(b)
	longest := max(len(ta), len(tb))
	if longest == 0 {
		return Result{}
	}
	setA, setB := generic.NewSet(ta...), generic.NewSet(tb...)
	common := setA.Intersection(setB)
	matches := max(matchingPositions(ta, tb, setB), matchingPositions(tb, ta, setA))

	result := Result{Similarity: float64(matches) / float64(longest)}
	seen := generic.NewSet[string]()
	for _, t := range ta {
		if !seen.Add(t) {
			continue
		}
		if common.Contains(t) {
			result.CommonParts = append(result.CommonParts, t)
		} else {
			result.Differences = append(result.Differences, t)
		}
	}
	for _, t := range tb {
		if seen.Add(t) {
			result.Differences = append(result.Differences, t)
		}
	}
	return result
}

func matchingPositions(tokens, other []string, otherSet generic.Set[string]) int {
	n := 0
	for i, t := range tokens {
		if (i < len(other) && other[i] == t) || otherSet.Contains(t) {
			n++
		}
	}
	return n
}

// JaccardSimilarity is |A ∩ B| / |A ∪ B| over the distinct tokens of a and b.
func JaccardSimilarity(a, b []string) float64 {
	setA, setB := generic.NewSet(a...), generic.NewSet(b...)
	union := setA.Union(setB).Count()
	if union == 0 {
		return 0
	}
	return float64(setA.Intersection(setB).Count()) / float64(union)
}

// CosineSimilarity treats a and b as token-count vectors and returns the cosine of the angle between them.
func CosineSimilarity(a, b []string) float64 {
	countA, countB := counts(a), counts(b)
	var dot, normA, normB float64
	for t, n := range countA {
		dot += float64(n * countB[t])
		normA += float64(n * n)
	}
	for _, n := range countB {
		normB += float64(n * n)
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func counts(tokens []string) map[string]int {
	res := make(map[string]int, len(tokens))
	for _, t := range tokens {
		res[t]++
	}
	return res
}

// GroupBySimilarity returns the connected components of the graph linking every pair of names with similarity of
// at least threshold. Singletons are dropped. Members keep input order, and groups are ordered by their first
// member.
func GroupBySimilarity(names []string, threshold float64) [][]string {
	parent := make([]int, len(names))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			if CalculateSimilarity(names[i], names[j]).Similarity >= threshold {
				ri, rj := find(i), find(j)
				// Keep the lowest index as root so group order follows input order
				if ri < rj {
					parent[rj] = ri
				} else if rj < ri {
					parent[ri] = rj
				}
			}
		}
	}

	var groups [][]string
	index := make(map[int]int)
	for i, name := range names {
		root := find(i)
		if g, ok := index[root]; ok {
			groups[g] = append(groups[g], name)
		} else {
			index[root] = len(groups)
			groups = append(groups, []string{name})
		}
	}
	res := groups[:0]
	for _, g := range groups {
		if len(g) >= 2 {
			res = append(res, g)
		}
	}
	return res
}

// ExtractCommonPrefix returns the longest run of leading tokens shared by every name, joined with underscores.
func ExtractCommonPrefix(names []string) string {
	if len(names) == 0 {
		return ""
	}
	prefix := Tokens(names[0])
	for _, name := range names[1:] {
		tokens := Tokens(name)
		n := 0
		for n < len(prefix) && n < len(tokens) && prefix[n] == tokens[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return strings.Join(prefix, "_")
}

func ExtractSubreddit(name string) string {
	if tokens := Tokens(name); len(tokens) >= 3 {
		return tokens[len(tokens)-2]
	}
	return ""
}

func ExtractAuthor(name string) string {
	if tokens := Tokens(name); len(tokens) >= 3 {
		return tokens[len(tokens)-1]
	}
	return ""
}

func ExtractTitle(name string) string {
	if tokens := Tokens(name); len(tokens) >= 3 {
		return strings.Join(tokens[:len(tokens)-2], "_")
	}
	return ""
}

// GenerateGroupName picks a folder name for a group of names. In order of preference: a subreddit shared by all,
// an author shared by all, the common prefix, the first name's title, the first name normalized.
func GenerateGroupName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	if s := sharedBy(names, ExtractSubreddit); s != "" {
		return s
	}
	if s := sharedBy(names, ExtractAuthor); s != "" {
		return s
	}
	if s := ExtractCommonPrefix(names); s != "" {
		return s
	}
	if s := ExtractTitle(names[0]); s != "" {
		return s
	}
	return Normalize(names[0])
}

func sharedBy(names []string, extract func(string) string) string {
	value := extract(names[0])
	if value == "" {
		return ""
	}
	for _, name := range names[1:] {
		if extract(name) != value {
			return ""
		}
	}
	return value
}

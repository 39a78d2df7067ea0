// Package fuzzy scores how well a spoken phrase matches a known command
// phrase. Speech recognition mangles short commands in predictable ways
// (dropped words, near-homophones, spelling drift), so a single metric is
// not enough: the score blends token coverage, edit similarity, a phonetic
// fold, and character n-gram overlap.
package fuzzy

import (
	"strings"
	"unicode"
)

// Blend weights. Token coverage dominates because word order and filler
// words vary freely in speech; the edit-similarity floor keeps a close
// verbatim match from being dragged down by a long input.
const (
	weightTokens   = 0.5
	weightEdit     = 0.22
	weightPhonetic = 0.2
	weightNgram    = 0.08

	floorEdit   = 0.92
	floorTokens = 0.08

	// wordMatchFloor is the minimum per-word similarity for a candidate
	// word to count as covered at all.
	wordMatchFloor = 0.35
)

// Normalize lowercases, strips punctuation and collapses whitespace so that
// scoring sees only letters, digits and single spaces.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			space = false
		case !space:
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// EditDistance returns the Levenshtein distance between a and b.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// EditSimilarity maps edit distance to [0, 1], 1 meaning identical.
func EditSimilarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 && lb == 0 {
		return 1
	}
	longest := la
	if lb > longest {
		longest = lb
	}
	return 1 - float64(EditDistance(a, b))/float64(longest)
}

// PhoneticFold reduces a word to a rough sound skeleton: common digraphs
// collapse to a single consonant, repeated letters collapse, and vowels
// after the first letter are dropped. "phone" and "fone" fold identically.
func PhoneticFold(word string) string {
	w := strings.ToLower(word)
	for _, sub := range [...][2]string{
		{"ph", "f"}, {"gh", "g"}, {"ck", "k"}, {"wh", "w"}, {"qu", "k"},
	} {
		w = strings.ReplaceAll(w, sub[0], sub[1])
	}

	var b strings.Builder
	var last rune = -1
	for i, r := range w {
		if r == last {
			continue
		}
		if i > 0 && isVowel(r) {
			last = r
			continue
		}
		b.WriteRune(r)
		last = r
	}
	return b.String()
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// PhoneticSimilarity is edit similarity over the phonetic folds.
func PhoneticSimilarity(a, b string) float64 {
	return EditSimilarity(foldPhrase(a), foldPhrase(b))
}

func foldPhrase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = PhoneticFold(w)
	}
	return strings.Join(words, " ")
}

// NgramJaccard is the Jaccard index of the character bigram sets of a and b.
func NgramJaccard(a, b string) float64 {
	ga, gb := bigrams(a), bigrams(b)
	if len(ga) == 0 && len(gb) == 0 {
		return 1
	}
	if len(ga) == 0 || len(gb) == 0 {
		return 0
	}
	inter := 0
	for g := range ga {
		if gb[g] {
			inter++
		}
	}
	union := len(ga) + len(gb) - inter
	return float64(inter) / float64(union)
}

func bigrams(s string) map[string]bool {
	r := []rune(s)
	if len(r) < 2 {
		if len(r) == 1 {
			return map[string]bool{string(r): true}
		}
		return nil
	}
	out := make(map[string]bool, len(r)-1)
	for i := 0; i+1 < len(r); i++ {
		out[string(r[i:i+2])] = true
	}
	return out
}

// wordSimilarity scores one candidate word against one input word: the
// best of edit similarity, edit similarity over the phonetic folds, and
// the shared-prefix ratio. Sound-alike words ("fone"/"phone") score 1.
func wordSimilarity(a, b string) float64 {
	s := EditSimilarity(a, b)
	if p := EditSimilarity(PhoneticFold(a), PhoneticFold(b)); p > s {
		s = p
	}
	if p := prefixRatio(a, b); p > s {
		s = p
	}
	return s
}

func prefixRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 0
	}
	n := 0
	for n < len(ra) && n < len(rb) && ra[n] == rb[n] {
		n++
	}
	return float64(n) / float64(longest)
}

// TokenCoverage measures how much of the candidate phrase the input speaks:
// each candidate word takes its best per-word similarity against any input
// word, words below the match floor score zero. coverage is the mean over
// candidate words and matched the fraction of candidate words that cleared
// the floor.
func TokenCoverage(input, candidate string) (coverage, matched float64) {
	cand := strings.Fields(candidate)
	if len(cand) == 0 {
		return 0, 0
	}
	in := strings.Fields(input)

	var total float64
	hits := 0
	for _, cw := range cand {
		best := 0.0
		for _, iw := range in {
			if s := wordSimilarity(cw, iw); s > best {
				best = s
			}
		}
		if best >= wordMatchFloor {
			total += best
			hits++
		}
	}
	return total / float64(len(cand)), float64(hits) / float64(len(cand))
}

// EvaluatePair scores normalized input against a normalized candidate
// phrase. The result is in [0, 1] and equals 1 for identical strings.
func EvaluatePair(input, candidate string) float64 {
	if input == candidate {
		return 1
	}

	tokens, _ := TokenCoverage(input, candidate)
	edit := EditSimilarity(input, candidate)
	phon := PhoneticSimilarity(input, candidate)
	ngram := NgramJaccard(input, candidate)

	blend := weightTokens*tokens + weightEdit*edit + weightPhonetic*phon + weightNgram*ngram
	if floor := floorEdit*edit + floorTokens*tokens; floor > blend {
		blend = floor
	}
	return blend
}

package fuzzy

// Acceptance threshold endpoints. Short phrases leave little signal to
// match on, so they must score high; long phrases can absorb more noise.
const (
	thresholdShort    = 0.62
	thresholdLong     = 0.40
	phraseLenShort    = 4
	phraseLenLong     = 18
	ambiguityGap      = 0.03
	ambiguityOverride = 0.52
)

// AcceptThreshold returns the minimum score a candidate phrase of the
// given character length must reach. Linear between the endpoints,
// clamped outside them.
func AcceptThreshold(phraseLen int) float64 {
	if phraseLen <= phraseLenShort {
		return thresholdShort
	}
	if phraseLen >= phraseLenLong {
		return thresholdLong
	}
	frac := float64(phraseLen-phraseLenShort) / float64(phraseLenLong-phraseLenShort)
	return thresholdShort - frac*(thresholdShort-thresholdLong)
}

// Match is one scored candidate.
type Match struct {
	Index int
	Score float64
}

// BestCandidate scores input against every candidate and returns the best
// match if it clears its length-scaled threshold. When the two best scores
// are within a narrow gap and neither is decisively strong, the match is
// rejected as ambiguous rather than guessed.
func BestCandidate(input string, candidates []string) (Match, bool) {
	input = Normalize(input)
	best := Match{Index: -1}
	second := Match{Index: -1}

	for i, c := range candidates {
		norm := Normalize(c)
		score := EvaluatePair(input, norm)
		switch {
		case score > best.Score || best.Index < 0:
			second = best
			best = Match{Index: i, Score: score}
		case score > second.Score || second.Index < 0:
			second = Match{Index: i, Score: score}
		}
	}

	if best.Index < 0 {
		return Match{Index: -1}, false
	}
	if best.Score < AcceptThreshold(len(Normalize(candidates[best.Index]))) {
		return Match{Index: -1}, false
	}
	if second.Index >= 0 &&
		best.Score-second.Score < ambiguityGap &&
		best.Score < ambiguityOverride && second.Score < ambiguityOverride {
		return Match{Index: -1}, false
	}
	return best, true
}

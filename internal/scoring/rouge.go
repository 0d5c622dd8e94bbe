package scoring

// Rouge computes ROUGE-1 recall between a candidate and the reference:
// clipped unigram matches divided by the reference token count. Tokens
// duplicated in the reference count up to their multiplicity, so the
// intersection is over multisets, not sets. Runs in O(len(candidate) +
// len(reference)) via a frequency map.
func Rouge(candidate, reference NormalizedText) float64 {
	if reference.IsEmpty() || candidate.IsEmpty() {
		return 0
	}

	remaining := make(map[string]int, len(reference.Tokens))
	for _, token := range reference.Tokens {
		remaining[token]++
	}

	matched := 0
	for _, token := range candidate.Tokens {
		if remaining[token] > 0 {
			remaining[token]--
			matched++
		}
	}

	return float64(matched) / float64(len(reference.Tokens))
}

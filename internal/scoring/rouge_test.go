package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRougeIdenticalTextScoresOne(t *testing.T) {
	text := Normalize("hello world")

	require.InDelta(t, 1.0, Rouge(text, text), 1e-9)
}

func TestRougeDisjointTextScoresZero(t *testing.T) {
	require.Equal(t, 0.0, Rouge(Normalize("hello world"), Normalize("foo bar")))
}

func TestRougeEmptyReferenceScoresZero(t *testing.T) {
	require.Equal(t, 0.0, Rouge(Normalize("some answer"), Normalize("  ")))
	require.Equal(t, 0.0, Rouge(Normalize(""), Normalize("reference text")))
}

func TestRougeCountsDuplicatesUpToReferenceMultiplicity(t *testing.T) {
	reference := Normalize("go go go stop")
	candidate := Normalize("go go go go go")

	// Three of the five candidate "go" tokens match; "stop" does not.
	require.InDelta(t, 0.75, Rouge(candidate, reference), 1e-9)
}

func TestRougeSharedTokensScorePositive(t *testing.T) {
	candidate := Normalize("The cache evicts least-recently-used entries.")
	reference := Normalize("The cache evicts the least recently used entry when full.")

	score := Rouge(candidate, reference)
	require.Greater(t, score, 0.0)
	require.LessOrEqual(t, score, 1.0)
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/CE2L/ICT-Project1-KOR/internal/dto"
)

type fakeProvider struct {
	mu            sync.Mutex
	embeddings    map[string][]float32
	embedCalls    map[string]int
	completion    string
	embedErr      error
	completeErr   error
	completeCalls int
}

func newFakeProvider(embeddings map[string][]float32) *fakeProvider {
	return &fakeProvider{
		embeddings: embeddings,
		embedCalls: make(map[string]int),
		completion: "narrative output",
	}
}

func (f *fakeProvider) Complete(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completeCalls++
	if f.completeErr != nil {
		return "", f.completeErr
	}
	return f.completion, nil
}

func (f *fakeProvider) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embedCalls[text]++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	if vector, ok := f.embeddings[text]; ok {
		return vector, nil
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) calls(text string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.embedCalls[text]
}

func (f *fakeProvider) totalEmbedCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.embedCalls {
		total += n
	}
	return total
}

func newTestAnalysisService(t *testing.T) AnalysisService {
	t.Helper()
	return NewAnalysisService(validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
}

func TestAnalyzeSelectsVerbatimMatch(t *testing.T) {
	service := newTestAnalysisService(t)
	provider := newFakeProvider(map[string][]float32{
		"databases use indexes to speed up reads.": {1, 0, 0},
		"indexes trade write cost for read speed.": {0.6, 0.8, 0},
	})

	resp, err := service.Analyze(context.Background(), provider, dto.AnalyzeInterviewsRequest{
		Transcripts: []string{
			"Indexes trade write cost for read speed.",
			"Databases use indexes to speed up reads.",
		},
		Reference: "Databases use indexes to speed up reads.",
	})
	require.NoError(t, err)

	require.NotNil(t, resp.HireDecision)
	require.Equal(t, 2, resp.HireDecision.SelectedCandidate)

	winner := resp.HireDecision.Scores[1]
	require.Equal(t, 2, winner.CandidateNumber)
	require.InDelta(t, 1.0, winner.CosineScore, 1e-9)
	require.InDelta(t, 1.0, winner.RougeScore, 1e-9)
	require.InDelta(t, 1.0, winner.OverallScore, 1e-9)
	require.Equal(t, "A", winner.Grade)

	// Top-level sub-scores mirror the winner; the score is the mean.
	require.InDelta(t, 1.0, resp.CosineScore, 1e-9)
	require.Equal(t, "A", resp.Grade)
	expectedMean := (resp.HireDecision.Scores[0].OverallScore + 1.0) / 2
	require.InDelta(t, expectedMean, resp.Score, 1e-9)

	require.Equal(t, dto.ModeManual, resp.Mode)
	require.Equal(t, "fake", resp.AIProvider)
	require.Contains(t, resp.HireDecision.Reason, "Candidate 2")
	require.Contains(t, resp.HireDecision.Reason, "narrative output")
}

func TestAnalyzeBlankReferenceRejectedBeforeProviderCall(t *testing.T) {
	service := newTestAnalysisService(t)
	provider := newFakeProvider(nil)

	_, err := service.Analyze(context.Background(), provider, dto.AnalyzeInterviewsRequest{
		Transcripts: []string{"a real answer"},
		Reference:   "   \n\t ",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Zero(t, provider.totalEmbedCalls())
	require.Zero(t, provider.completeCalls)
}

func TestAnalyzeAllBlankTranscriptsRejectedBeforeProviderCall(t *testing.T) {
	service := newTestAnalysisService(t)
	provider := newFakeProvider(nil)

	_, err := service.Analyze(context.Background(), provider, dto.AnalyzeInterviewsRequest{
		Transcripts: []string{"", "   ", "\n\t"},
		Reference:   "a reference answer",
	})
	require.ErrorIs(t, err, ErrEmptyCandidateSet)
	require.Zero(t, provider.totalEmbedCalls())
	require.Zero(t, provider.completeCalls)
}

func TestAnalyzeValidationFailure(t *testing.T) {
	service := newTestAnalysisService(t)
	provider := newFakeProvider(nil)

	_, err := service.Analyze(context.Background(), provider, dto.AnalyzeInterviewsRequest{
		Transcripts: nil,
		Reference:   "a reference answer",
	})

	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
	require.Zero(t, provider.totalEmbedCalls())
}

func TestAnalyzeEmbedsReferenceExactlyOnce(t *testing.T) {
	service := newTestAnalysisService(t)
	provider := newFakeProvider(map[string][]float32{
		"shared reference text": {0, 1, 0},
	})

	_, err := service.Analyze(context.Background(), provider, dto.AnalyzeInterviewsRequest{
		Transcripts: []string{"answer one", "answer two", "answer three", "answer four"},
		Reference:   "Shared reference text",
	})
	require.NoError(t, err)
	require.Equal(t, 1, provider.calls("shared reference text"))
}

func TestAnalyzePreservesSubmissionOrder(t *testing.T) {
	service := newTestAnalysisService(t)
	provider := newFakeProvider(map[string][]float32{
		"reference": {1, 0, 0},
		"first":     {0, 1, 0},
		"second":    {0.9, 0.1, 0},
		"third":     {0.5, 0.5, 0},
	})

	resp, err := service.Analyze(context.Background(), provider, dto.AnalyzeInterviewsRequest{
		Transcripts: []string{"first", "second", "third"},
		Reference:   "reference",
	})
	require.NoError(t, err)

	require.Len(t, resp.HireDecision.Scores, 3)
	for i, score := range resp.HireDecision.Scores {
		require.Equal(t, i+1, score.CandidateNumber)
	}
	require.Equal(t, 2, resp.HireDecision.SelectedCandidate)
}

func TestAnalyzeBlankTranscriptsSkippedAndRenumbered(t *testing.T) {
	service := newTestAnalysisService(t)
	provider := newFakeProvider(map[string][]float32{
		"reference": {1, 0, 0},
	})

	resp, err := service.Analyze(context.Background(), provider, dto.AnalyzeInterviewsRequest{
		Transcripts: []string{"   ", "only real answer", ""},
		Reference:   "reference",
	})
	require.NoError(t, err)

	require.Len(t, resp.HireDecision.Scores, 1)
	require.Equal(t, 1, resp.HireDecision.Scores[0].CandidateNumber)
	require.Equal(t, 1, resp.HireDecision.SelectedCandidate)
	require.Zero(t, provider.calls(""))
}

func TestAnalyzeSingleCandidateLexicalOverlap(t *testing.T) {
	service := newTestAnalysisService(t)
	provider := newFakeProvider(map[string][]float32{
		"an lru cache evicts the least recently used entry first.": {0.9, 0.436, 0},
		"the lru policy evicts the least recently used entry when the cache is full.": {1, 0, 0},
	})

	resp, err := service.Analyze(context.Background(), provider, dto.AnalyzeInterviewsRequest{
		Transcripts: []string{"An LRU cache evicts the least recently used entry first."},
		Reference:   "The LRU policy evicts the least recently used entry when the cache is full.",
	})
	require.NoError(t, err)

	require.Equal(t, 1, resp.HireDecision.SelectedCandidate)
	require.Greater(t, resp.RougeScore, 0.0)
	require.Less(t, resp.RougeScore, 1.0)
	require.Greater(t, resp.CosineScore, 0.0)
	require.LessOrEqual(t, resp.CosineScore, 1.0)
}

func TestAnalyzeProviderEmbedFailurePropagates(t *testing.T) {
	service := newTestAnalysisService(t)
	provider := newFakeProvider(nil)
	provider.embedErr = errors.New("upstream timeout")

	resp, err := service.Analyze(context.Background(), provider, dto.AnalyzeInterviewsRequest{
		Transcripts: []string{"an answer"},
		Reference:   "a reference",
	})
	require.ErrorContains(t, err, "upstream timeout")
	require.Empty(t, resp.Report)
	require.Nil(t, resp.HireDecision)
}

func TestAnalyzeProviderCompletionFailurePropagates(t *testing.T) {
	service := newTestAnalysisService(t)
	provider := newFakeProvider(nil)
	provider.completeErr = errors.New("generation rejected")

	_, err := service.Analyze(context.Background(), provider, dto.AnalyzeInterviewsRequest{
		Transcripts: []string{"an answer"},
		Reference:   "a reference",
	})
	require.ErrorContains(t, err, "generation rejected")
}

func TestAnalyzeDeterministicAcrossRuns(t *testing.T) {
	service := newTestAnalysisService(t)
	req := dto.AnalyzeInterviewsRequest{
		Transcripts: []string{"goroutines are cheap", "channels synchronize goroutines"},
		Reference:   "channels synchronize goroutines",
	}

	embeddings := map[string][]float32{
		"goroutines are cheap":            {0.2, 0.9, 0},
		"channels synchronize goroutines": {1, 0, 0},
	}

	first, err := service.Analyze(context.Background(), newFakeProvider(embeddings), req)
	require.NoError(t, err)
	second, err := service.Analyze(context.Background(), newFakeProvider(embeddings), req)
	require.NoError(t, err)

	require.Equal(t, first.Score, second.Score)
	require.Equal(t, first.Grade, second.Grade)
	require.Equal(t, first.HireDecision.SelectedCandidate, second.HireDecision.SelectedCandidate)
	require.Equal(t, first.HireDecision.Scores, second.HireDecision.Scores)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/CE2L/ICT-Project1-KOR/internal/dto"
	"github.com/CE2L/ICT-Project1-KOR/internal/scoring"
	"github.com/CE2L/ICT-Project1-KOR/pkg/ai"
)

// ErrInvalidInput indicates the reference answer was blank after trimming.
var ErrInvalidInput = errors.New("reference answer must not be blank")

// ErrEmptyCandidateSet indicates every submitted transcript was blank.
var ErrEmptyCandidateSet = errors.New("no non-blank transcripts to analyze")

// AnalysisInput is the engine-facing request, shared by manual and
// generated runs. Transcripts and Reference are never mutated.
type AnalysisInput struct {
	Transcripts []string
	Reference   string
	Mode        string
	JobPosition string
	Question    string
	Levels      []string
}

// AnalysisService runs the scoring pipeline over candidate transcripts.
type AnalysisService interface {
	Analyze(ctx context.Context, provider ai.Provider, req dto.AnalyzeInterviewsRequest) (dto.InterviewResponse, error)
	AnalyzeSet(ctx context.Context, provider ai.Provider, input AnalysisInput) (dto.InterviewResponse, error)
}

type analysisService struct {
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAnalysisService constructs the analysis orchestrator.
func NewAnalysisService(validator *validator.Validate, logger zerolog.Logger) AnalysisService {
	return &analysisService{
		validator: validator,
		logger:    logger.With().Str("component", "analysis_service").Logger(),
	}
}

func (s *analysisService) Analyze(ctx context.Context, provider ai.Provider, req dto.AnalyzeInterviewsRequest) (dto.InterviewResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.InterviewResponse{}, err
	}

	return s.AnalyzeSet(ctx, provider, AnalysisInput{
		Transcripts: req.Transcripts,
		Reference:   req.Reference,
		Mode:        dto.ModeManual,
	})
}

type candidateInput struct {
	number     int
	raw        string
	normalized scoring.NormalizedText
}

func (s *analysisService) AnalyzeSet(ctx context.Context, provider ai.Provider, input AnalysisInput) (dto.InterviewResponse, error) {
	tracer := otel.Tracer("github.com/CE2L/ICT-Project1-KOR/internal/service/analysis")
	ctx, span := tracer.Start(ctx, "analysis.run")
	span.SetAttributes(
		attribute.String("analysis.mode", input.Mode),
		attribute.Int("analysis.submitted", len(input.Transcripts)),
	)
	defer span.End()

	reference := scoring.Normalize(input.Reference)
	if reference.IsEmpty() {
		span.SetStatus(codes.Error, "blank_reference")
		return dto.InterviewResponse{}, ErrInvalidInput
	}

	// Blank transcripts are filtered here, before any provider call;
	// surviving candidates keep 1-based submission numbering.
	candidates := make([]candidateInput, 0, len(input.Transcripts))
	for _, transcript := range input.Transcripts {
		normalized := scoring.Normalize(transcript)
		if normalized.IsEmpty() {
			continue
		}
		candidates = append(candidates, candidateInput{
			number:     len(candidates) + 1,
			raw:        transcript,
			normalized: normalized,
		})
	}

	if len(candidates) == 0 {
		span.SetStatus(codes.Error, "empty_candidate_set")
		return dto.InterviewResponse{}, ErrEmptyCandidateSet
	}

	cache := newEmbeddingCache(provider)

	// The reference embedding is computed once and shared read-only
	// across every candidate comparison.
	referenceVector, err := cache.embed(ctx, reference.Text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reference_embedding_failed")
		return dto.InterviewResponse{}, err
	}

	scores := make([]scoring.CandidateScore, len(candidates))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, candidate := range candidates {
		group.Go(func() error {
			vector, err := cache.embed(groupCtx, candidate.normalized.Text)
			if err != nil {
				return err
			}

			cosine := scoring.Cosine(vector, referenceVector)
			rouge := scoring.Rouge(candidate.normalized, reference)
			overall, grade := scoring.Aggregate(cosine, rouge)

			scores[i] = scoring.CandidateScore{
				CandidateNumber: candidate.number,
				CosineScore:     cosine,
				RougeScore:      rouge,
				OverallScore:    overall,
				Grade:           grade,
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "candidate_scoring_failed")
		return dto.InterviewResponse{}, err
	}

	decision, facts, err := scoring.Decide(scores)
	if err != nil {
		span.RecordError(err)
		return dto.InterviewResponse{}, err
	}

	// Narrative generation happens only after the numbers are frozen;
	// its output never feeds back into the scores.
	rationale, err := provider.Complete(ctx, buildRationalePrompt(facts, candidates, input.Reference))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rationale_generation_failed")
		return dto.InterviewResponse{}, err
	}
	decision.Reason = facts.Summary() + "\n\n" + rationale

	report, err := provider.Complete(ctx, buildReportPrompt(input.JobPosition, candidates, input.Reference))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "report_generation_failed")
		return dto.InterviewResponse{}, err
	}

	var total float64
	var winner scoring.CandidateScore
	for _, score := range scores {
		total += score.OverallScore
		if score.CandidateNumber == decision.SelectedCandidate {
			winner = score
		}
	}
	meanOverall := total / float64(len(scores))

	response := dto.InterviewResponse{
		Mode:         input.Mode,
		Report:       report,
		Score:        meanOverall,
		CosineScore:  winner.CosineScore,
		RougeScore:   winner.RougeScore,
		Grade:        string(winner.Grade),
		Reference:    input.Reference,
		AIProvider:   provider.Name(),
		HireDecision: newHireDecisionResponse(decision),
	}

	if input.Mode == dto.ModeGenerated {
		response.JobPosition = input.JobPosition
		response.Question = input.Question
		response.Transcripts = input.Transcripts
		response.Levels = input.Levels
	}

	span.SetAttributes(
		attribute.Int("analysis.candidates", len(candidates)),
		attribute.Int("analysis.selected", decision.SelectedCandidate),
		attribute.Float64("analysis.score", meanOverall),
	)
	s.logger.Info().
		Str("mode", input.Mode).
		Int("candidates", len(candidates)).
		Int("selected", decision.SelectedCandidate).
		Float64("score", meanOverall).
		Str("provider", provider.Name()).
		Msg("analysis completed")

	return response, nil
}

func newHireDecisionResponse(decision scoring.HireDecision) *dto.HireDecisionResponse {
	scores := make([]dto.CandidateScoreResponse, len(decision.Scores))
	for i, score := range decision.Scores {
		scores[i] = dto.CandidateScoreResponse{
			CandidateNumber: score.CandidateNumber,
			CosineScore:     score.CosineScore,
			RougeScore:      score.RougeScore,
			OverallScore:    score.OverallScore,
			Grade:           string(score.Grade),
		}
	}

	return &dto.HireDecisionResponse{
		SelectedCandidate: decision.SelectedCandidate,
		Reason:            decision.Reason,
		Scores:            scores,
	}
}

func buildRationalePrompt(facts scoring.DecisionFacts, candidates []candidateInput, reference string) string {
	builder := strings.Builder{}
	builder.WriteString("You are the CTO reviewing final interview results. Explain in a short paragraph why the selected candidate's answer is the strongest.\n\n")
	fmt.Fprintf(&builder, "Decision facts: %s\n\n", facts.Summary())
	fmt.Fprintf(&builder, "Expert reference answer:\n%s\n\nCandidate answers:\n", reference)
	for _, candidate := range candidates {
		fmt.Fprintf(&builder, "Candidate %d: %s\n", candidate.number, candidate.raw)
	}
	fmt.Fprintf(&builder, "\nGround your explanation in the decision facts above; do not invent numbers.")
	return builder.String()
}

func buildReportPrompt(jobPosition string, candidates []candidateInput, reference string) string {
	if jobPosition == "" {
		jobPosition = "the open position"
	}

	builder := strings.Builder{}
	fmt.Fprintf(&builder, "You are a technical review board member. Analyze the answers of %d candidates for %s.\n\n", len(candidates), jobPosition)
	fmt.Fprintf(&builder, "Expert reference answer:\n%s\n\nCandidate answers:\n", reference)
	for _, candidate := range candidates {
		fmt.Fprintf(&builder, "Candidate %d: %s\n", candidate.number, candidate.raw)
	}
	builder.WriteString(`
Cover technical depth, architectural understanding, and performance awareness. Structure the report as:
1. Shared strengths and technical traits
2. Major omissions and common weaknesses
3. Key differences that separate the candidates
4. Alignment and reliability against the expert reference
5. Hiring recommendations per deployment scenario`)
	return builder.String()
}

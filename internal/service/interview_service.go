package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/CE2L/ICT-Project1-KOR/internal/dto"
	"github.com/CE2L/ICT-Project1-KOR/pkg/ai"
)

const (
	defaultJobPosition   = "Frontend Developer"
	defaultNumCandidates = 3
)

// seniorityLevels is the ladder that generated candidate answers are
// spread across, strongest first.
var seniorityLevels = []string{"expert", "intermediate", "junior"}

var questionPattern = regexp.MustCompile(`(?s)\[QUESTION\](.*?)(?:\[CANDIDATE 1\]|$)`)

var referencePattern = regexp.MustCompile(`(?s)\[REFERENCE\](.*)$`)

// GeneratedSet is a demo interview produced for a job position.
type GeneratedSet struct {
	Question    string
	Transcripts []string
	Reference   string
	Levels      []string
}

// InterviewService produces synthetic interview sets and feeds them
// through the analysis pipeline.
type InterviewService interface {
	Generate(ctx context.Context, provider ai.Provider, jobPosition string, numCandidates int) (GeneratedSet, error)
	GenerateAndAnalyze(ctx context.Context, provider ai.Provider, req dto.GenerateInterviewsRequest) (dto.InterviewResponse, error)
}

type interviewService struct {
	analysis  AnalysisService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewInterviewService constructs the demo generation service.
func NewInterviewService(analysis AnalysisService, validator *validator.Validate, logger zerolog.Logger) InterviewService {
	return &interviewService{
		analysis:  analysis,
		validator: validator,
		logger:    logger.With().Str("component", "interview_service").Logger(),
	}
}

func (s *interviewService) GenerateAndAnalyze(ctx context.Context, provider ai.Provider, req dto.GenerateInterviewsRequest) (dto.InterviewResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.InterviewResponse{}, err
	}

	jobPosition := strings.TrimSpace(req.JobPosition)
	if jobPosition == "" {
		jobPosition = defaultJobPosition
	}

	set, err := s.Generate(ctx, provider, jobPosition, req.NumCandidates)
	if err != nil {
		return dto.InterviewResponse{}, err
	}

	return s.analysis.AnalyzeSet(ctx, provider, AnalysisInput{
		Transcripts: set.Transcripts,
		Reference:   set.Reference,
		Mode:        dto.ModeGenerated,
		JobPosition: jobPosition,
		Question:    set.Question,
		Levels:      set.Levels,
	})
}

func (s *interviewService) Generate(ctx context.Context, provider ai.Provider, jobPosition string, numCandidates int) (GeneratedSet, error) {
	if jobPosition == "" {
		jobPosition = defaultJobPosition
	}
	if numCandidates <= 0 {
		numCandidates = defaultNumCandidates
	}

	raw, err := provider.Complete(ctx, buildGenerationPrompt(jobPosition, numCandidates))
	if err != nil {
		return GeneratedSet{}, err
	}

	set := parseGeneratedSet(raw, jobPosition, numCandidates)
	s.logger.Info().
		Str("job_position", jobPosition).
		Int("candidates", numCandidates).
		Str("provider", provider.Name()).
		Msg("interview set generated")

	return set, nil
}

func buildGenerationPrompt(jobPosition string, numCandidates int) string {
	builder := strings.Builder{}
	fmt.Fprintf(&builder, "Generate demanding technical interview data for the position: %s.\n\n", jobPosition)
	builder.WriteString("Produce exactly one advanced interview question, answers from ")
	fmt.Fprintf(&builder, "%d candidates of descending seniority, and the ideal expert reference answer.\n\n", numCandidates)
	builder.WriteString("Use exactly this tagged format, with body text only after each tag:\n\n")
	builder.WriteString("[QUESTION]\n<the interview question>\n\n")
	for i := 1; i <= numCandidates; i++ {
		fmt.Fprintf(&builder, "[CANDIDATE %d]\n<answer at %s level>\n\n", i, levelFor(i-1, numCandidates))
	}
	builder.WriteString("[REFERENCE]\n<the most complete expert answer>")
	return builder.String()
}

func parseGeneratedSet(raw, jobPosition string, numCandidates int) GeneratedSet {
	set := GeneratedSet{
		Question:    extractSection(questionPattern, raw),
		Reference:   extractSection(referencePattern, raw),
		Transcripts: make([]string, numCandidates),
		Levels:      make([]string, numCandidates),
	}

	if set.Question == "" {
		set.Question = fmt.Sprintf("Describe the most advanced technical challenge you have solved as a %s.", jobPosition)
	}
	if set.Reference == "" {
		set.Reference = fmt.Sprintf("A thorough expert answer for the %s position covering design trade-offs, performance, and failure handling.", jobPosition)
	}

	for i := 0; i < numCandidates; i++ {
		set.Levels[i] = levelFor(i, numCandidates)
		set.Transcripts[i] = extractSection(candidatePattern(i+1), raw)
		if set.Transcripts[i] == "" {
			set.Transcripts[i] = fmt.Sprintf("An %s-level answer outlining a standard approach for a %s.", set.Levels[i], jobPosition)
		}
	}

	return set
}

func candidatePattern(number int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?s)\[CANDIDATE %d\](.*?)(?:\[CANDIDATE %d\]|\[REFERENCE\]|$)`, number, number+1))
}

func extractSection(pattern *regexp.Regexp, raw string) string {
	match := pattern.FindStringSubmatch(raw)
	if len(match) < 2 {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// levelFor maps a zero-based candidate index onto the seniority
// ladder so that early candidates get the stronger levels.
func levelFor(index, total int) string {
	if total <= 0 {
		return seniorityLevels[0]
	}
	return seniorityLevels[index*len(seniorityLevels)/total]
}

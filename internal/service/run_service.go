package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/CE2L/ICT-Project1-KOR/internal/dto"
	"github.com/CE2L/ICT-Project1-KOR/internal/models"
	"github.com/CE2L/ICT-Project1-KOR/internal/repository"
)

// ErrRunNotFound indicates the requested analysis run does not exist.
var ErrRunNotFound = errors.New("analysis run not found")

// RunService persists completed analysis results and serves them back.
type RunService interface {
	Record(ctx context.Context, result dto.InterviewResponse, jobPosition string) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (dto.InterviewRunResponse, error)
	List(ctx context.Context, limit int) ([]dto.InterviewRunSummary, error)
}

type runService struct {
	repo     repository.InterviewRunRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewRunService constructs the run archive service. The cache client
// may be nil, in which case every read goes to the database.
func NewRunService(repo repository.InterviewRunRepository, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) RunService {
	return &runService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "run_service").Logger(),
	}
}

func (s *runService) Record(ctx context.Context, result dto.InterviewResponse, jobPosition string) (uuid.UUID, error) {
	run := models.InterviewRun{
		Mode:        result.Mode,
		Provider:    result.AIProvider,
		JobPosition: jobPosition,
		Question:    result.Question,
		Reference:   result.Reference,
		Report:      result.Report,
		Score:       result.Score,
		CosineScore: result.CosineScore,
		RougeScore:  result.RougeScore,
		Grade:       result.Grade,
	}

	if len(result.Transcripts) > 0 {
		payload, err := json.Marshal(result.Transcripts)
		if err != nil {
			return uuid.Nil, fmt.Errorf("marshal transcripts: %w", err)
		}
		run.Transcripts = payload
	}
	if len(result.Levels) > 0 {
		payload, err := json.Marshal(result.Levels)
		if err != nil {
			return uuid.Nil, fmt.Errorf("marshal levels: %w", err)
		}
		run.Levels = payload
	}
	if result.HireDecision != nil {
		payload, err := json.Marshal(result.HireDecision)
		if err != nil {
			return uuid.Nil, fmt.Errorf("marshal hire decision: %w", err)
		}
		run.HireDecision = payload
	}

	if err := s.repo.Create(ctx, &run); err != nil {
		return uuid.Nil, fmt.Errorf("persist analysis run: %w", err)
	}

	return run.ID, nil
}

func (s *runService) Get(ctx context.Context, id uuid.UUID) (dto.InterviewRunResponse, error) {
	if cached, ok := s.fromCache(ctx, id); ok {
		return cached, nil
	}

	run, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.InterviewRunResponse{}, ErrRunNotFound
		}
		return dto.InterviewRunResponse{}, fmt.Errorf("load analysis run: %w", err)
	}

	response, err := newRunResponse(&run)
	if err != nil {
		return dto.InterviewRunResponse{}, err
	}

	s.toCache(ctx, response)
	return response, nil
}

func (s *runService) List(ctx context.Context, limit int) ([]dto.InterviewRunSummary, error) {
	runs, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list analysis runs: %w", err)
	}

	summaries := make([]dto.InterviewRunSummary, len(runs))
	for i, run := range runs {
		summaries[i] = dto.InterviewRunSummary{
			ID:          run.ID,
			Mode:        run.Mode,
			JobPosition: run.JobPosition,
			Provider:    run.Provider,
			Score:       run.Score,
			Grade:       run.Grade,
			CreatedAt:   run.CreatedAt,
		}
	}

	return summaries, nil
}

func (s *runService) fromCache(ctx context.Context, id uuid.UUID) (dto.InterviewRunResponse, bool) {
	if s.cache == nil {
		return dto.InterviewRunResponse{}, false
	}

	payload, err := s.cache.Get(ctx, runCacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("run_id", id.String()).Msg("run cache read failed")
		}
		return dto.InterviewRunResponse{}, false
	}

	var response dto.InterviewRunResponse
	if err := json.Unmarshal(payload, &response); err != nil {
		s.logger.Warn().Err(err).Str("run_id", id.String()).Msg("run cache entry corrupt")
		return dto.InterviewRunResponse{}, false
	}

	return response, true
}

func (s *runService) toCache(ctx context.Context, response dto.InterviewRunResponse) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		s.logger.Warn().Err(err).Msg("run cache marshal failed")
		return
	}
	if err := s.cache.Set(ctx, runCacheKey(response.ID), payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("run_id", response.ID.String()).Msg("run cache write failed")
	}
}

func newRunResponse(run *models.InterviewRun) (dto.InterviewRunResponse, error) {
	result := dto.InterviewResponse{
		Mode:        run.Mode,
		JobPosition: run.JobPosition,
		Report:      run.Report,
		Score:       run.Score,
		CosineScore: run.CosineScore,
		RougeScore:  run.RougeScore,
		Grade:       run.Grade,
		Question:    run.Question,
		Reference:   run.Reference,
		AIProvider:  run.Provider,
	}

	if len(run.Transcripts) > 0 {
		if err := json.Unmarshal(run.Transcripts, &result.Transcripts); err != nil {
			return dto.InterviewRunResponse{}, fmt.Errorf("decode transcripts: %w", err)
		}
	}
	if len(run.Levels) > 0 {
		if err := json.Unmarshal(run.Levels, &result.Levels); err != nil {
			return dto.InterviewRunResponse{}, fmt.Errorf("decode levels: %w", err)
		}
	}
	if len(run.HireDecision) > 0 {
		result.HireDecision = &dto.HireDecisionResponse{}
		if err := json.Unmarshal(run.HireDecision, result.HireDecision); err != nil {
			return dto.InterviewRunResponse{}, fmt.Errorf("decode hire decision: %w", err)
		}
	}

	return dto.InterviewRunResponse{
		ID:          run.ID,
		JobPosition: run.JobPosition,
		CreatedAt:   run.CreatedAt,
		Result:      result,
	}, nil
}

func runCacheKey(id uuid.UUID) string {
	return "interview:run:" + id.String()
}

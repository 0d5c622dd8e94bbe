package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/CE2L/ICT-Project1-KOR/internal/dto"
	"github.com/CE2L/ICT-Project1-KOR/internal/observability"
	"github.com/CE2L/ICT-Project1-KOR/internal/service"
	"github.com/CE2L/ICT-Project1-KOR/internal/utils"
	"github.com/CE2L/ICT-Project1-KOR/pkg/ai"
)

// InterviewHandler exposes interview analysis, demo generation, and the
// run archive.
type InterviewHandler struct {
	analysis   service.AnalysisService
	interviews service.InterviewService
	runs       service.RunService
	providers  *ai.Registry
	logger     zerolog.Logger
}

// NewInterviewHandler constructs the interview handler.
func NewInterviewHandler(
	analysis service.AnalysisService,
	interviews service.InterviewService,
	runs service.RunService,
	providers *ai.Registry,
	logger zerolog.Logger,
) *InterviewHandler {
	return &InterviewHandler{
		analysis:   analysis,
		interviews: interviews,
		runs:       runs,
		providers:  providers,
		logger:     logger.With().Str("component", "interview_handler").Logger(),
	}
}

// Register wires interview routes. The limiter guards the two
// provider-backed POST endpoints; read endpoints stay unthrottled.
func (h *InterviewHandler) Register(router fiber.Router, limit fiber.Handler) {
	if limit == nil {
		limit = func(c *fiber.Ctx) error { return c.Next() }
	}

	router.Post("/analyses", limit, h.analyze)
	router.Post("/generations", limit, h.generate)
	router.Get("/runs", h.listRuns)
	router.Get("/runs/:id", h.getRun)
}

func (h *InterviewHandler) analyze(c *fiber.Ctx) error {
	var payload dto.AnalyzeInterviewsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid_payload", "request body is not valid JSON")
	}

	provider, ok := h.providers.Resolve(c.Query("provider"))
	if !ok {
		return utils.SendError(c, fiber.StatusServiceUnavailable, "no_provider", "no ai provider configured")
	}

	response, err := h.analysis.Analyze(c.UserContext(), provider, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	h.record(c, &response, "")
	return utils.SendSuccess(c, "analysis completed", response)
}

func (h *InterviewHandler) generate(c *fiber.Ctx) error {
	var payload dto.GenerateInterviewsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid_payload", "request body is not valid JSON")
		}
	}

	provider, ok := h.providers.Resolve(c.Query("provider"))
	if !ok {
		return utils.SendError(c, fiber.StatusServiceUnavailable, "no_provider", "no ai provider configured")
	}

	response, err := h.interviews.GenerateAndAnalyze(c.UserContext(), provider, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	// The service defaults a blank position, so the archived run takes
	// the effective one from the response, not the raw payload.
	h.record(c, &response, response.JobPosition)
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "interview set generated and analyzed", response)
}

func (h *InterviewHandler) getRun(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid_run_id", "run id must be a uuid")
	}

	run, err := h.runs.Get(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "run retrieved", run)
}

func (h *InterviewHandler) listRuns(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	runs, err := h.runs.List(c.UserContext(), limit)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "runs retrieved", runs)
}

// record archives a completed analysis. Persistence failures are logged
// and swallowed so the analysis result still reaches the client.
func (h *InterviewHandler) record(c *fiber.Ctx, response *dto.InterviewResponse, jobPosition string) {
	observability.AnalysisRuns().WithLabelValues(response.Mode, response.AIProvider).Inc()
	observability.AnalysisScores().WithLabelValues(response.Mode).Observe(response.Score)

	if h.runs == nil {
		return
	}

	id, err := h.runs.Record(c.UserContext(), *response, jobPosition)
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to archive analysis run")
		return
	}
	response.RunID = &id
}

func (h *InterviewHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrEmptyCandidateSet):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid_input", err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, "validation_failed", validationErrors.Error())
	case errors.Is(err, service.ErrRunNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "run_not_found", "analysis run not found")
	case errors.Is(err, ai.ErrUnavailable):
		h.logger.Error().Err(err).Msg("ai provider call failed")
		return utils.SendError(c, fiber.StatusBadGateway, "provider_unavailable", "ai provider unavailable")
	default:
		h.logger.Error().Err(err).Msg("interview request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}
}

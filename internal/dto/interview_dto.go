package dto

import (
	"time"

	"github.com/google/uuid"
)

// Analysis modes distinguishing manually submitted transcripts from
// generated demo sets.
const (
	ModeManual    = "manual"
	ModeGenerated = "generated"
)

// AnalyzeInterviewsRequest carries user-provided transcripts and the
// expert reference answer they are compared against.
type AnalyzeInterviewsRequest struct {
	Transcripts []string `json:"transcripts" validate:"required,min=1"`
	Reference   string   `json:"reference" validate:"required"`
}

// GenerateInterviewsRequest asks for a demo interview set for a job
// position, analyzed immediately after generation.
type GenerateInterviewsRequest struct {
	JobPosition   string `json:"job_position"`
	NumCandidates int    `json:"num_candidates" validate:"omitempty,gte=1,lte=10"`
}

// CandidateScoreResponse serializes one candidate's score breakdown.
type CandidateScoreResponse struct {
	CandidateNumber int     `json:"candidate_number"`
	CosineScore     float64 `json:"cosine_score"`
	RougeScore      float64 `json:"rouge_score"`
	OverallScore    float64 `json:"overall_score"`
	Grade           string  `json:"grade"`
}

// HireDecisionResponse serializes the winner selection. Scores keeps
// submission order.
type HireDecisionResponse struct {
	SelectedCandidate int                      `json:"selected_candidate"`
	Reason            string                   `json:"reason"`
	Scores            []CandidateScoreResponse `json:"scores"`
}

// InterviewResponse is the full analysis result. The top-level score is
// the mean overall across candidates while cosine/rouge/grade reflect
// the selected candidate; with a single candidate all four collapse to
// that candidate's values. Question, transcripts and levels are present
// only for generated demo runs.
type InterviewResponse struct {
	Mode         string                `json:"mode"`
	Report       string                `json:"report"`
	Score        float64               `json:"score"`
	CosineScore  float64               `json:"cosine_score"`
	RougeScore   float64               `json:"rouge_score"`
	Grade        string                `json:"grade"`
	JobPosition  string                `json:"job_position,omitempty"`
	Question     string                `json:"question,omitempty"`
	Transcripts  []string              `json:"transcripts,omitempty"`
	Reference    string                `json:"reference"`
	Levels       []string              `json:"levels,omitempty"`
	HireDecision *HireDecisionResponse `json:"hire_decision,omitempty"`
	AIProvider   string                `json:"ai_provider,omitempty"`
	RunID        *uuid.UUID            `json:"run_id,omitempty"`
}

// InterviewRunResponse is a persisted analysis run served back by ID.
type InterviewRunResponse struct {
	ID          uuid.UUID         `json:"id"`
	JobPosition string            `json:"job_position,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	Result      InterviewResponse `json:"result"`
}

// InterviewRunSummary is a listing entry for recent runs.
type InterviewRunSummary struct {
	ID          uuid.UUID `json:"id"`
	Mode        string    `json:"mode"`
	JobPosition string    `json:"job_position,omitempty"`
	Provider    string    `json:"provider,omitempty"`
	Score       float64   `json:"score"`
	Grade       string    `json:"grade"`
	CreatedAt   time.Time `json:"created_at"`
}

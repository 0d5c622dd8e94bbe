package scoring

import (
	"errors"
	"fmt"
)

// ErrNoCandidates indicates Decide was called with an empty score set.
// The orchestrator guarantees at least one scored transcript before
// reaching the decision stage.
var ErrNoCandidates = errors.New("no candidate scores to decide on")

// CandidateScore is the per-candidate scoring breakdown.
// CandidateNumber is the 1-based position among the submitted
// transcripts; it never changes after creation.
type CandidateScore struct {
	CandidateNumber int     `json:"candidate_number"`
	CosineScore     float64 `json:"cosine_score"`
	RougeScore      float64 `json:"rouge_score"`
	OverallScore    float64 `json:"overall_score"`
	Grade           Grade   `json:"grade"`
}

// HireDecision selects one candidate among the scored set. Scores keeps
// submission order, not rank order.
type HireDecision struct {
	SelectedCandidate int              `json:"selected_candidate"`
	Reason            string           `json:"reason"`
	Scores            []CandidateScore `json:"scores"`
}

// DecisionFacts are the numeric grounds behind a hire decision. They
// seed the narrative rationale so the prose stays traceable to scores
// instead of being invented by the language model.
type DecisionFacts struct {
	SelectedCandidate int
	OverallScore      float64
	Margin            float64
	DecisiveMetric    string
}

// Summary renders the facts as a short structured justification.
func (f DecisionFacts) Summary() string {
	if f.Margin > 0 {
		return fmt.Sprintf(
			"Candidate %d leads with an overall score of %.3f, a margin of %.3f over the runner-up, driven mainly by the %s score.",
			f.SelectedCandidate, f.OverallScore, f.Margin, f.DecisiveMetric,
		)
	}

	return fmt.Sprintf(
		"Candidate %d scored %.3f overall, with the %s score as the stronger signal.",
		f.SelectedCandidate, f.OverallScore, f.DecisiveMetric,
	)
}

// Decide picks the candidate with the highest overall score. Exact ties
// go to the lowest candidate number, so the outcome is deterministic
// for any scheduling or input order. The returned decision carries an
// empty Reason; the caller attaches the narrative once the numbers are
// frozen.
func Decide(scores []CandidateScore) (HireDecision, DecisionFacts, error) {
	if len(scores) == 0 {
		return HireDecision{}, DecisionFacts{}, ErrNoCandidates
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		switch {
		case scores[i].OverallScore > scores[best].OverallScore:
			best = i
		case scores[i].OverallScore == scores[best].OverallScore &&
			scores[i].CandidateNumber < scores[best].CandidateNumber:
			best = i
		}
	}

	facts := DecisionFacts{
		SelectedCandidate: scores[best].CandidateNumber,
		OverallScore:      scores[best].OverallScore,
	}

	if len(scores) > 1 {
		runnerUp := -1
		for i := range scores {
			if i == best {
				continue
			}
			if runnerUp < 0 || scores[i].OverallScore > scores[runnerUp].OverallScore {
				runnerUp = i
			}
		}

		facts.Margin = scores[best].OverallScore - scores[runnerUp].OverallScore
		if scores[best].RougeScore-scores[runnerUp].RougeScore > scores[best].CosineScore-scores[runnerUp].CosineScore {
			facts.DecisiveMetric = "lexical overlap"
		} else {
			facts.DecisiveMetric = "semantic similarity"
		}
	} else {
		if scores[best].RougeScore > scores[best].CosineScore {
			facts.DecisiveMetric = "lexical overlap"
		} else {
			facts.DecisiveMetric = "semantic similarity"
		}
	}

	ordered := make([]CandidateScore, len(scores))
	copy(ordered, scores)

	return HireDecision{
		SelectedCandidate: scores[best].CandidateNumber,
		Scores:            ordered,
	}, facts, nil
}

package scoring

// Blend weights for the overall score. These are pinned product
// constants: changing them is a versioned behaviour change, never a
// runtime parameter.
const (
	cosineWeight = 0.6
	rougeWeight  = 0.4
)

// Grade is a discrete ordered label derived from an overall score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Grade band floors. Boundaries are lower-inclusive: a score equal to a
// floor takes the higher band. The bands are contiguous and cover all
// of [0, 1].
var gradeBands = []struct {
	floor float64
	grade Grade
}{
	{0.90, GradeA},
	{0.80, GradeB},
	{0.70, GradeC},
	{0.50, GradeD},
	{0.00, GradeF},
}

// Aggregate combines the semantic and lexical sub-scores into the
// overall score and its grade. Both inputs are expected in [0, 1], so
// the weighted sum stays in [0, 1] as well.
func Aggregate(cosine, rouge float64) (float64, Grade) {
	overall := cosineWeight*cosine + rougeWeight*rouge
	return overall, GradeFor(overall)
}

// GradeFor maps an overall score to its band.
func GradeFor(score float64) Grade {
	for _, band := range gradeBands {
		if score >= band.floor {
			return band.grade
		}
	}

	return GradeF
}

// Package matching ranks historical admission cases against a candidate
// profile using a weighted combination of five attribute similarities.
package matching

import (
	"math"

	"github.com/suanho/compass/internal/casebook"
	"github.com/suanho/compass/internal/normalize"
	"github.com/suanho/compass/internal/textsim"
)

// NeutralScore is assigned when a compared attribute is unknown on either
// side. Missing data must stay distinguishable from maximal dissimilarity.
const NeutralScore = 0.5

// crossTestCap bounds language similarity when the two scores belong to test
// types that cannot be projected onto a shared scale.
const crossTestCap = 0.3

// GPASimilarity compares two 4.0-scale GPAs. Zero is the unknown sentinel on
// either side.
func GPASimilarity(a, b float64) float64 {
	if a == 0 || b == 0 {
		return NeutralScore
	}
	return math.Max(0, 1-math.Abs(a-b)/4.0)
}

// TierSimilarity compares two university tiers over their total order.
// Adjacent tiers are nearly interchangeable; distant ones are not, hence the
// non-linear step-down.
func TierSimilarity(a, b casebook.Tier) float64 {
	switch diff := absInt(a.Rank() - b.Rank()); diff {
	case 0:
		return 1.0
	case 1:
		return 0.7
	case 2:
		return 0.4
	default:
		return 0.1
	}
}

// majorAdjacency lists category pairs close enough to count as related.
var majorAdjacency = map[string][]string{
	normalize.MajorCS:       {normalize.MajorEE, normalize.MajorME},
	normalize.MajorEE:       {normalize.MajorCS, normalize.MajorME},
	normalize.MajorME:       {normalize.MajorCS, normalize.MajorEE},
	normalize.MajorFinance:  {normalize.MajorBusiness},
	normalize.MajorBusiness: {normalize.MajorFinance},
}

// MajorSimilarity compares two major category codes.
func MajorSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	for _, related := range majorAdjacency[a] {
		if related == b {
			return 0.6
		}
	}
	return 0.1
}

// LanguageSimilarity compares two language totals on the internal score
// scale (IELTS stored pre-multiplied by ten). Unknown scores on either side
// are neutral. Scores of different exams are projected onto the TOEFL range
// before diffing; when projection is impossible the similarity is capped.
func LanguageSimilarity(aScore int, aTest casebook.LanguageTest, bScore int, bTest casebook.LanguageTest) float64 {
	if aScore == 0 || bScore == 0 {
		return NeutralScore
	}

	if aTest == bTest {
		maxScore := normalize.LanguageMaxScore(aTest)
		return math.Max(0, 1-math.Abs(float64(aScore-bScore))/float64(maxScore))
	}

	a, okA := normalize.LanguageScoreToTOEFLScale(aScore, aTest)
	b, okB := normalize.LanguageScoreToTOEFLScale(bScore, bTest)
	if !okA || !okB {
		return crossTestCap
	}
	return math.Max(0, 1-math.Abs(a-b)/normalize.TOEFLMaxScore)
}

// ExperienceSimilarity compares a candidate's experience vector against a
// precomputed case vector. Cosine on non-negative TF-IDF vectors is already
// non-negative, but the floor stays as a guard. The neutral policy for an
// empty candidate text or an unvectorizable corpus is applied by the engine,
// which can tell those cases apart from text that simply shares no terms.
func ExperienceSimilarity(candidate, historical textsim.Vector) float64 {
	return textsim.Cosine(candidate, historical)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package normalize

import "github.com/suanho/compass/internal/casebook"

// Maximum totals on the shared internal score scale: TOEFL totals as-is,
// IELTS band totals pre-multiplied by ten (9.0 stored as 90).
const (
	TOEFLMaxScore       = 120
	IELTSMaxStoredScore = 90
)

// IELTSToStoredScore converts an IELTS band total (0.0-9.0) into the
// canonical internal unit. This is the only place the times-ten convention
// is applied on the way in.
func IELTSToStoredScore(band float64) int {
	if band <= 0 {
		return 0
	}
	return int(band * 10)
}

// LanguageScoreToTOEFLScale projects a stored score onto the TOEFL 0-120
// range so totals from different exams can be diffed. TOEFL scores pass
// through; IELTS stored scores are rescaled from their 0-90 range. Zero
// stays zero (unknown sentinel). Scores of unrecognized test types are not
// comparable and return ok=false.
func LanguageScoreToTOEFLScale(score int, test casebook.LanguageTest) (float64, bool) {
	if score <= 0 {
		return 0, true
	}
	switch test {
	case casebook.TestTOEFL:
		return float64(score), true
	case casebook.TestIELTS:
		return float64(score) * TOEFLMaxScore / IELTSMaxStoredScore, true
	default:
		return 0, false
	}
}

// LanguageMaxScore reports the maximum total of a test on the internal
// scale, used to normalize same-test score differences.
func LanguageMaxScore(test casebook.LanguageTest) int {
	if test == casebook.TestIELTS {
		return IELTSMaxStoredScore
	}
	return TOEFLMaxScore
}

// Package etl turns raw scraped admission cases into processed, typed rows
// the matching engine can load. The structured fields are pulled out of
// free-form text with regular expressions; whatever cannot be extracted maps
// to the documented sentinel values, never to a dropped row.
package etl

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/suanho/compass/internal/casebook"
	"github.com/suanho/compass/internal/normalize"
)

var (
	gpaWithScalePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+\.?\d*)\s*[/（(]\s*(\d+\.?\d*)\s*[制)）]`),
		regexp.MustCompile(`(\d+\.?\d*)\s*[/（(]\s*(\d+\.?\d*)\s*[)）]`),
	}
	gpaLabeledPattern = regexp.MustCompile(`(?i)GPA\s*[：:]\s*(\d+\.?\d*)`)
	gpaBarePattern    = regexp.MustCompile(`(\d+\.?\d*)`)

	toeflPatterns = []*regexp.Regexp{
		regexp.MustCompile(`toefl[：:\s]*(\d+)`),
		regexp.MustCompile(`托福[：:\s]*(\d+)`),
		regexp.MustCompile(`toefl.*?(\d+)`),
	}
	ieltsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`ielts[：:\s]*(\d+\.?\d*)`),
		regexp.MustCompile(`雅思[：:\s]*(\d+\.?\d*)`),
		regexp.MustCompile(`ielts.*?(\d+\.?\d*)`),
	}

	grePattern  = regexp.MustCompile(`gre[：:\s]*(\d+)`)
	gmatPattern = regexp.MustCompile(`gmat[：:\s]*(\d+)`)

	workYearPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*年.*?经验`),
		regexp.MustCompile(`(\d+)\s*年.*?工作`),
		regexp.MustCompile(`工作.*?(\d+)\s*年`),
	}
)

var researchKeywords = []string{"研究", "项目", "论文", "专利", "科研", "实验"}

var internshipKeywords = []string{"实习", "intern", "实践"}

const experienceCountCap = 10

// ExtractGPA parses a raw GPA string into its 4.0-scale value, the original
// text and the detected scale tag. An unparseable string yields the zero
// sentinel.
func ExtractGPA(raw string) (gpa4 float64, original, scaleType string) {
	original = strings.TrimSpace(raw)
	if original == "" {
		return 0, "", ""
	}

	var value, scale float64
	for _, pattern := range gpaWithScalePatterns {
		if m := pattern.FindStringSubmatch(original); m != nil {
			value, _ = strconv.ParseFloat(m[1], 64)
			scale, _ = strconv.ParseFloat(m[2], 64)
			break
		}
	}

	if value == 0 {
		if m := gpaLabeledPattern.FindStringSubmatch(original); m != nil {
			value, _ = strconv.ParseFloat(m[1], 64)
		} else if m := gpaBarePattern.FindStringSubmatch(original); m != nil {
			value, _ = strconv.ParseFloat(m[1], 64)
		}
	}
	if value == 0 {
		return 0, original, ""
	}

	switch {
	case scale > 5 || (scale == 0 && value > 5):
		scaleType = normalize.GPAScale100
	default:
		scaleType = normalize.GPAScale4
	}

	return normalize.GPATo4Scale(value, scaleType), original, scaleType
}

// ExtractLanguageScore finds a TOEFL or IELTS total in the language field or
// the surrounding background text. IELTS band totals enter the canonical
// times-ten unit here, and only here.
func ExtractLanguageScore(languageField, background string) (casebook.LanguageTest, int) {
	text := strings.ToLower(strings.TrimSpace(languageField + " " + background))
	if text == "" {
		return casebook.TestNone, 0
	}

	for _, pattern := range toeflPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			score, _ := strconv.Atoi(m[1])
			return casebook.TestTOEFL, score
		}
	}

	for _, pattern := range ieltsPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			band, _ := strconv.ParseFloat(m[1], 64)
			return casebook.TestIELTS, normalize.IELTSToStoredScore(band)
		}
	}

	return casebook.TestNone, 0
}

// ExtractTestScores finds GRE and GMAT totals in background text.
func ExtractTestScores(background string) (greTotal, gmatTotal int) {
	text := strings.ToLower(background)
	if m := grePattern.FindStringSubmatch(text); m != nil {
		greTotal, _ = strconv.Atoi(m[1])
	}
	if m := gmatPattern.FindStringSubmatch(text); m != nil {
		gmatTotal, _ = strconv.Atoi(m[1])
	}
	return greTotal, gmatTotal
}

// ExtractExperience counts research and internship mentions and detects
// years of work experience in the key-experience text. Counts are capped;
// beyond that the number carries no extra signal.
func ExtractExperience(keyExperience string) (research, internship int, workYears float64) {
	text := strings.ToLower(keyExperience)
	if strings.TrimSpace(text) == "" {
		return 0, 0, 0
	}

	for _, keyword := range researchKeywords {
		research += strings.Count(text, keyword)
	}
	for _, keyword := range internshipKeywords {
		internship += strings.Count(text, keyword)
	}
	if research > experienceCountCap {
		research = experienceCountCap
	}
	if internship > experienceCountCap {
		internship = experienceCountCap
	}

	for _, pattern := range workYearPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			if years, err := strconv.ParseFloat(m[1], 64); err == nil && years > workYears {
				workYears = years
			}
		}
	}

	return research, internship, workYears
}

// countryKeywords maps destination countries/regions to markers found in
// admitted-university names.
var countryKeywords = map[string][]string{
	"美国":   {"美国", "stanford", "mit", "harvard", "berkeley", "carnegie", "columbia", "cornell", "yale", "princeton"},
	"英国":   {"英国", "oxford", "cambridge", "imperial", "ucl", "lse", "edinburgh", "manchester", "warwick"},
	"加拿大":  {"加拿大", "toronto", "mcgill", "ubc", "waterloo", "alberta"},
	"澳大利亚": {"澳大利亚", "澳洲", "melbourne", "sydney", "anu", "unsw", "monash"},
	"新加坡":  {"新加坡", "nus", "ntu", "南洋理工", "新加坡国立"},
	"香港":   {"香港", "hku", "hkust", "cuhk", "cityu", "polyu"},
	"德国":   {"德国", "慕尼黑", "柏林", "亚琛"},
	"法国":   {"法国", "巴黎"},
	"日本":   {"日本", "东京", "京都", "大阪"},
	"韩国":   {"韩国", "首尔", "延世", "高丽"},
}

// CountryFromUniversity infers the destination country from an admitted
// university name.
func CountryFromUniversity(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	lower := strings.ToLower(name)
	for country, keywords := range countryKeywords {
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				return country
			}
		}
	}
	return "其他"
}

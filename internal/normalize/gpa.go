package normalize

// GPAScale tags for the two supported reporting scales.
const (
	GPAScale4   = "4.0"
	GPAScale100 = "100"
)

// gpaSteps maps 100-point grade thresholds to 4.0-scale values. The same
// table converts candidate input and scraped historical records; changing a
// threshold here changes both sides of every comparison.
var gpaSteps = []struct {
	min  float64
	gpa4 float64
}{
	{90, 4.0},
	{85, 3.7},
	{82, 3.3},
	{78, 3.0},
	{75, 2.7},
	{72, 2.3},
	{68, 2.0},
	{64, 1.7},
	{60, 1.0},
}

// GPATo4Scale converts a reported GPA to the 4.0 scale. A missing or
// unrecognized scale tag is inferred from the value: anything above 5 is
// treated as a 100-point grade. Values on the 4.0 scale are clamped to
// [0, 4.0]. Zero stays zero, preserving the unknown sentinel.
func GPATo4Scale(gpa float64, scale string) float64 {
	if gpa <= 0 {
		return 0
	}

	hundredPoint := scale == GPAScale100 || (scale != GPAScale4 && gpa > 5)
	if hundredPoint {
		for _, step := range gpaSteps {
			if gpa >= step.min {
				return step.gpa4
			}
		}
		return 0
	}

	if gpa > 4.0 {
		return 4.0
	}
	return gpa
}

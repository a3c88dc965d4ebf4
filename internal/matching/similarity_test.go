package matching

import (
	"math"
	"testing"

	"github.com/suanho/compass/internal/casebook"
	"github.com/suanho/compass/internal/normalize"
)

func TestGPASimilarity(t *testing.T) {
	tests := []struct {
		name   string
		a, b   float64
		expect float64
	}{
		{"identical", 3.7, 3.7, 1.0},
		{"close", 3.9, 3.5, 0.9},
		{"far apart", 4.0, 1.0, 0.25},
		{"unknown left", 0, 3.5, NeutralScore},
		{"unknown right", 3.5, 0, NeutralScore},
		{"both unknown", 0, 0, NeutralScore},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := GPASimilarity(tc.a, tc.b); math.Abs(got-tc.expect) > 1e-9 {
				t.Fatalf("GPASimilarity(%v, %v) = %v, expected %v", tc.a, tc.b, got, tc.expect)
			}
		})
	}
}

func TestGPASimilaritySymmetric(t *testing.T) {
	if GPASimilarity(3.2, 3.9) != GPASimilarity(3.9, 3.2) {
		t.Fatal("expected GPA similarity to be symmetric")
	}
}

func TestTierSimilarity(t *testing.T) {
	tests := []struct {
		name   string
		a, b   casebook.Tier
		expect float64
	}{
		{"same tier", casebook.TierC9, casebook.TierC9, 1.0},
		{"adjacent", casebook.TierC9, casebook.Tier985, 0.7},
		{"two apart", casebook.TierC9, casebook.Tier211, 0.4},
		{"three apart", casebook.TierC9, casebook.TierOrdinary, 0.1},
		{"four apart", casebook.TierC9, casebook.TierUnknown, 0.1},
		{"ordinary vs 211", casebook.TierOrdinary, casebook.Tier211, 0.7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TierSimilarity(tc.a, tc.b); got != tc.expect {
				t.Fatalf("TierSimilarity(%v, %v) = %v, expected %v", tc.a, tc.b, got, tc.expect)
			}
			if got := TierSimilarity(tc.b, tc.a); got != tc.expect {
				t.Fatalf("TierSimilarity(%v, %v) = %v, expected %v", tc.b, tc.a, got, tc.expect)
			}
		})
	}
}

func TestMajorSimilarity(t *testing.T) {
	tests := []struct {
		name   string
		a, b   string
		expect float64
	}{
		{"exact", normalize.MajorCS, normalize.MajorCS, 1.0},
		{"cs vs ee", normalize.MajorCS, normalize.MajorEE, 0.6},
		{"cs vs me", normalize.MajorCS, normalize.MajorME, 0.6},
		{"finance vs business", normalize.MajorFinance, normalize.MajorBusiness, 0.6},
		{"cs vs finance", normalize.MajorCS, normalize.MajorFinance, 0.1},
		{"other vs other", normalize.MajorOther, normalize.MajorOther, 1.0},
		{"other vs cs", normalize.MajorOther, normalize.MajorCS, 0.1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MajorSimilarity(tc.a, tc.b); got != tc.expect {
				t.Fatalf("MajorSimilarity(%q, %q) = %v, expected %v", tc.a, tc.b, got, tc.expect)
			}
			if got := MajorSimilarity(tc.b, tc.a); got != tc.expect {
				t.Fatal("expected major similarity to be symmetric")
			}
		})
	}
}

func TestLanguageSimilaritySameTest(t *testing.T) {
	if got := LanguageSimilarity(100, casebook.TestTOEFL, 100, casebook.TestTOEFL); got != 1.0 {
		t.Fatalf("identical TOEFL scores: expected 1.0, got %v", got)
	}

	got := LanguageSimilarity(110, casebook.TestTOEFL, 98, casebook.TestTOEFL)
	want := 1 - 12.0/120
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("TOEFL diff: expected %v, got %v", want, got)
	}

	// IELTS diffs are normalized by the stored-scale maximum.
	got = LanguageSimilarity(70, casebook.TestIELTS, 65, casebook.TestIELTS)
	want = 1 - 5.0/90
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("IELTS diff: expected %v, got %v", want, got)
	}
}

func TestLanguageSimilarityCrossTest(t *testing.T) {
	// IELTS 7.0 projects to roughly TOEFL 93, comparable with a real 100.
	got := LanguageSimilarity(70, casebook.TestIELTS, 100, casebook.TestTOEFL)
	projected := 70.0 * 120 / 90
	want := 1 - math.Abs(projected-100)/120
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("cross-test: expected %v, got %v", want, got)
	}
	if got <= 0 || got >= 1 {
		t.Fatalf("cross-test similarity should be strictly between 0 and 1, got %v", got)
	}

	sym := LanguageSimilarity(100, casebook.TestTOEFL, 70, casebook.TestIELTS)
	if math.Abs(got-sym) > 1e-9 {
		t.Fatal("expected cross-test similarity to be symmetric")
	}
}

func TestLanguageSimilarityUnknownAndIncompatible(t *testing.T) {
	if got := LanguageSimilarity(0, casebook.TestNone, 100, casebook.TestTOEFL); got != NeutralScore {
		t.Fatalf("unknown score: expected neutral, got %v", got)
	}

	if got := LanguageSimilarity(300, "GRE", 100, casebook.TestTOEFL); got != crossTestCap {
		t.Fatalf("incompatible test types: expected cap %v, got %v", crossTestCap, got)
	}
}

func TestWeightsValidate(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights must validate: %v", err)
	}

	bad := Weights{Major: 0.5, GPA: 0.5, Tier: 0.5}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for weights not summing to 1")
	}

	negative := Weights{Major: -0.1, GPA: 0.4, Tier: 0.3, Language: 0.2, Experience: 0.2}
	if err := negative.Validate(); err == nil {
		t.Fatal("expected error for negative weight")
	}
}

func TestCombineBounds(t *testing.T) {
	w := DefaultWeights()

	max := w.combine(casebook.ComponentScores{Major: 1, GPA: 1, Tier: 1, Language: 1, Experience: 1})
	if math.Abs(max-1.0) > 1e-9 {
		t.Fatalf("all-ones components: expected total 1.0, got %v", max)
	}

	min := w.combine(casebook.ComponentScores{})
	if min != 0 {
		t.Fatalf("all-zero components: expected total 0, got %v", min)
	}
}

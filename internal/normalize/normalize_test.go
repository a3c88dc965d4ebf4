package normalize

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/suanho/compass/internal/casebook"
)

func TestGPATo4Scale(t *testing.T) {
	tests := []struct {
		name   string
		gpa    float64
		scale  string
		expect float64
	}{
		{"zero stays zero", 0, GPAScale100, 0},
		{"negative stays zero", -1, GPAScale4, 0},
		{"hundred point top band", 92, GPAScale100, 4.0},
		{"hundred point boundary 90", 90, GPAScale100, 4.0},
		{"hundred point 85", 85, GPAScale100, 3.7},
		{"hundred point 82", 82, GPAScale100, 3.3},
		{"hundred point 78", 78, GPAScale100, 3.0},
		{"hundred point 75", 75, GPAScale100, 2.7},
		{"hundred point 72", 72, GPAScale100, 2.3},
		{"hundred point 68", 68, GPAScale100, 2.0},
		{"hundred point 64", 64, GPAScale100, 1.7},
		{"hundred point 60", 60, GPAScale100, 1.0},
		{"hundred point below 60", 55, GPAScale100, 0},
		{"four point passthrough", 3.5, GPAScale4, 3.5},
		{"four point clamped", 4.3, GPAScale4, 4.0},
		{"scale inferred from value", 88, "", 3.7},
		{"four point inferred", 3.9, "", 3.9},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := GPATo4Scale(tc.gpa, tc.scale); got != tc.expect {
				t.Fatalf("GPATo4Scale(%v, %q) = %v, expected %v", tc.gpa, tc.scale, got, tc.expect)
			}
		})
	}
}

func TestIELTSToStoredScore(t *testing.T) {
	if got := IELTSToStoredScore(7.0); got != 70 {
		t.Fatalf("expected 70, got %d", got)
	}
	if got := IELTSToStoredScore(6.5); got != 65 {
		t.Fatalf("expected 65, got %d", got)
	}
	if got := IELTSToStoredScore(0); got != 0 {
		t.Fatalf("expected 0 for unknown band, got %d", got)
	}
}

func TestLanguageScoreToTOEFLScale(t *testing.T) {
	if got, ok := LanguageScoreToTOEFLScale(100, casebook.TestTOEFL); !ok || got != 100 {
		t.Fatalf("toefl passthrough: got %v, %v", got, ok)
	}

	got, ok := LanguageScoreToTOEFLScale(70, casebook.TestIELTS)
	if !ok {
		t.Fatal("ielts score should be projectable")
	}
	want := 70.0 * 120 / 90
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("ielts projection: expected %v, got %v", want, got)
	}

	if got, ok := LanguageScoreToTOEFLScale(0, casebook.TestTOEFL); !ok || got != 0 {
		t.Fatalf("zero sentinel should pass through: got %v, %v", got, ok)
	}

	if _, ok := LanguageScoreToTOEFLScale(50, "GRE"); ok {
		t.Fatal("unrecognized test type should not be comparable")
	}
}

func TestUniversityTier(t *testing.T) {
	tables := Default()

	tests := []struct {
		name   string
		expect casebook.Tier
	}{
		{"清华大学", casebook.TierC9},
		{"北京大学", casebook.TierC9},
		{"同济大学", casebook.Tier985},
		{"上海财经大学", casebook.Tier211},
		{"某某师范学院", casebook.TierOrdinary},
		{"Unknown Institute", casebook.TierUnknown},
		{"", casebook.TierUnknown},
	}

	for _, tc := range tests {
		if got := tables.UniversityTier(tc.name); got != tc.expect {
			t.Fatalf("UniversityTier(%q) = %v, expected %v", tc.name, got, tc.expect)
		}
	}
}

func TestUniversityTierSubstring(t *testing.T) {
	tables := Default()

	// Tier lookup tolerates decorated names.
	if got := tables.UniversityTier("上海交通大学(闵行校区)"); got != casebook.TierC9 {
		t.Fatalf("expected C9 for decorated name, got %v", got)
	}
}

func TestMajorCategory(t *testing.T) {
	tables := Default()

	tests := []struct {
		name   string
		expect string
	}{
		{"计算机科学与技术", MajorCS},
		{"软件工程", MajorCS},
		{"电子信息工程", MajorEE},
		{"机械工程", MajorME},
		{"金融学", MajorFinance},
		{"工商管理", MajorBusiness},
		{"哲学", MajorOther},
		{"", MajorOther},
	}

	for _, tc := range tests {
		if got := tables.MajorCategory(tc.name); got != tc.expect {
			t.Fatalf("MajorCategory(%q) = %q, expected %q", tc.name, got, tc.expect)
		}
	}
}

func TestLoadUniversityOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universities.json")
	if err := os.WriteFile(path, []byte(`{"Example Tech University": "985"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	tables := Default()
	if err := tables.LoadUniversityOverrides(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := tables.UniversityTier("Example Tech University"); got != casebook.Tier985 {
		t.Fatalf("expected override tier 985, got %v", got)
	}
}

func TestLoadMajorOverridesMissingFile(t *testing.T) {
	tables := Default()
	if err := tables.LoadMajorOverrides(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestTierRankOrder(t *testing.T) {
	order := []casebook.Tier{
		casebook.TierC9, casebook.Tier985, casebook.Tier211,
		casebook.TierOrdinary, casebook.TierUnknown,
	}

	for i := 0; i+1 < len(order); i++ {
		if order[i].Rank() <= order[i+1].Rank() {
			t.Fatalf("expected %v to rank above %v", order[i], order[i+1])
		}
	}
}

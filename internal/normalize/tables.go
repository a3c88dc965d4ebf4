// Package normalize classifies raw university and major names into the
// discrete categories the matching engine compares, and converts reported
// GPA and language scores into their canonical internal units.
//
// Classification is a deliberate two-stage policy: exact table lookup first,
// substring containment second, keyword default last. The substring stage is
// a crude but real classifier for partially-qualified names ("北大" vs
// "北京大学"), not a fallback hack.
//
// The university and major tables are versioned together: the engine's tier
// and category similarities are only meaningful when candidate and
// historical data were classified by the same table revision.
package normalize

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/suanho/compass/internal/casebook"
)

// Tables holds the university-tier and major-category mappings.
type Tables struct {
	tiers  map[string]casebook.Tier
	majors map[string]string
}

// Default returns tables populated with the built-in mappings.
func Default() *Tables {
	t := &Tables{
		tiers:  make(map[string]casebook.Tier, len(universityTiers)),
		majors: make(map[string]string, len(majorCategories)),
	}
	for name, tier := range universityTiers {
		t.tiers[name] = tier
	}
	for name, category := range majorCategories {
		t.majors[name] = category
	}
	return t
}

// LoadUniversityOverrides merges a JSON file of name-to-tier entries over the
// built-in university table. File entries win on conflict.
func (t *Tables) LoadUniversityOverrides(path string) error {
	var overrides map[string]casebook.Tier
	if err := readJSONFile(path, &overrides); err != nil {
		return fmt.Errorf("loading university overrides: %w", err)
	}
	for name, tier := range overrides {
		t.tiers[strings.TrimSpace(name)] = tier
	}
	return nil
}

// LoadMajorOverrides merges a JSON file of name-to-category entries over the
// built-in major table. File entries win on conflict.
func (t *Tables) LoadMajorOverrides(path string) error {
	var overrides map[string]string
	if err := readJSONFile(path, &overrides); err != nil {
		return fmt.Errorf("loading major overrides: %w", err)
	}
	for name, category := range overrides {
		t.majors[strings.TrimSpace(name)] = category
	}
	return nil
}

func readJSONFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// UniversityTier classifies a raw university name.
func (t *Tables) UniversityTier(name string) casebook.Tier {
	name = strings.TrimSpace(name)
	if name == "" {
		return casebook.TierUnknown
	}

	if tier, ok := t.tiers[name]; ok {
		return tier
	}

	for known, tier := range t.tiers {
		if strings.Contains(name, known) || strings.Contains(known, name) {
			return tier
		}
	}

	lower := strings.ToLower(name)
	for _, keyword := range []string{"大学", "学院", "university", "college"} {
		if strings.Contains(lower, keyword) {
			return casebook.TierOrdinary
		}
	}
	return casebook.TierUnknown
}

// MajorCategory classifies a raw major name. Unclassifiable majors map to
// MajorOther.
func (t *Tables) MajorCategory(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return MajorOther
	}

	if category, ok := t.majors[name]; ok {
		return category
	}

	for known, category := range t.majors {
		if strings.Contains(name, known) || strings.Contains(known, name) {
			return category
		}
	}
	return MajorOther
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suanho/compass/internal/ai"
	"github.com/suanho/compass/internal/casebook"
	"github.com/suanho/compass/internal/report"
)

type stubRepo struct {
	cases []casebook.HistoricalCase
}

func (s *stubRepo) FetchAll(_ context.Context) ([]casebook.HistoricalCase, error) {
	return s.cases, nil
}

type stubMatcher struct {
	matches []casebook.ScoredMatch
}

func (s *stubMatcher) FindSimilarCases(_ context.Context, _ *casebook.CandidateProfile, _ int) ([]casebook.ScoredMatch, error) {
	return s.matches, nil
}

type stubAdvisor struct {
	fail bool
}

func (s *stubAdvisor) AnalyzeCompetitiveness(_ context.Context, _ *casebook.CandidateProfile) (*ai.CompetitivenessAnalysis, error) {
	if s.fail {
		return nil, context.DeadlineExceeded
	}
	return &ai.CompetitivenessAnalysis{Summary: "ok"}, nil
}

func (s *stubAdvisor) RecommendSchools(_ context.Context, _ *casebook.CandidateProfile, _ []casebook.ScoredMatch) (*ai.SchoolRecommendations, error) {
	if s.fail {
		return nil, context.DeadlineExceeded
	}
	return &ai.SchoolRecommendations{CaseInsights: "ok"}, nil
}

func (s *stubAdvisor) AnalyzeCase(_ context.Context, _ *casebook.CandidateProfile, match casebook.ScoredMatch) (*ai.CaseAnalysis, error) {
	return &ai.CaseAnalysis{CaseID: match.CaseID}, nil
}

func (s *stubAdvisor) SuggestImprovements(_ context.Context, _ *casebook.CandidateProfile, _ string) (*ai.BackgroundImprovement, error) {
	return &ai.BackgroundImprovement{}, nil
}

func storedCases() []casebook.HistoricalCase {
	return []casebook.HistoricalCase{
		{CaseID: 1, AdmittedCountry: "美国", AdmittedUniversity: "Stanford", MajorCategory: "CS"},
		{CaseID: 2, AdmittedCountry: "美国", AdmittedUniversity: "CMU", MajorCategory: "CS"},
		{CaseID: 3, AdmittedCountry: "英国", AdmittedUniversity: "Oxford", MajorCategory: "Finance"},
	}
}

func newTestServer(matches []casebook.ScoredMatch, advisorFails bool) *httptest.Server {
	store := casebook.NewStore(&stubRepo{cases: storedCases()}, 0, nil)
	reports := report.NewService(&stubMatcher{matches: matches}, &stubAdvisor{fail: advisorFails}, nil)
	return httptest.NewServer(New(store, reports, nil).Routes())
}

func validProfileBody() string {
	return `{
		"undergraduate_university": "同济大学",
		"undergraduate_major": "计算机科学与技术",
		"gpa": 88,
		"gpa_scale": "100",
		"target_countries": ["美国"],
		"target_degree_type": "Master"
	}`
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(nil, false)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestAnalyzeEndpoint(t *testing.T) {
	matches := []casebook.ScoredMatch{
		{CaseID: 1, TotalSimilarity: 0.9, Case: casebook.HistoricalCase{CaseID: 1}},
	}
	ts := newTestServer(matches, false)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/analyze", "application/json", strings.NewReader(validProfileBody()))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rep ai.AnalysisReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rep))
	assert.NotNil(t, rep.Competitiveness)
	assert.NotNil(t, rep.SchoolRecommendations)
	require.Len(t, rep.SimilarCases, 1)
	assert.Equal(t, int64(1), rep.SimilarCases[0].CaseID)
}

func TestAnalyzeEndpointValidation(t *testing.T) {
	ts := newTestServer(nil, false)
	defer ts.Close()

	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json at all"},
		{"missing required fields", `{"gpa": 88}`},
		{"wrong type", `{"undergraduate_university": 1, "undergraduate_major": "CS", "gpa": 88, "target_countries": [], "target_degree_type": "Master"}`},
		{"bad degree type", `{"undergraduate_university": "x", "undergraduate_major": "CS", "gpa": 88, "target_countries": [], "target_degree_type": "Bachelor"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/analyze", "application/json", strings.NewReader(tc.body))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestAnalyzeEndpointNoCases(t *testing.T) {
	ts := newTestServer(nil, false)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/analyze", "application/json", strings.NewReader(validProfileBody()))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAnalyzeEndpointNarrativeUnavailable(t *testing.T) {
	matches := []casebook.ScoredMatch{{CaseID: 1}}
	ts := newTestServer(matches, true)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/analyze", "application/json", strings.NewReader(validProfileBody()))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAnalyzeEndpointMethodNotAllowed(t *testing.T) {
	ts := newTestServer(nil, false)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/analyze")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCaseDetailsEndpoint(t *testing.T) {
	ts := newTestServer(nil, false)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/cases/2")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var c casebook.HistoricalCase
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&c))
	assert.Equal(t, int64(2), c.CaseID)
	assert.Equal(t, "CMU", c.AdmittedUniversity)
}

func TestCaseDetailsEndpointNotFound(t *testing.T) {
	ts := newTestServer(nil, false)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/cases/999")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/cases/not-a-number")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefreshEndpoint(t *testing.T) {
	ts := newTestServer(nil, false)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/refresh-data", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	// The refresh runs in the background; give it a moment before the
	// server shuts down.
	time.Sleep(50 * time.Millisecond)
}

func TestStatsEndpoint(t *testing.T) {
	ts := newTestServer(nil, false)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats statsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))

	assert.Equal(t, 3, stats.TotalCases)
	require.NotEmpty(t, stats.Countries)
	assert.Equal(t, "美国", stats.Countries[0].Name)
	assert.Equal(t, 2, stats.Countries[0].Count)
	assert.Len(t, stats.Majors, 2)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(nil, false)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTopCounts(t *testing.T) {
	counts := map[string]int{"a": 1, "b": 3, "c": 3, "d": 2}

	got := topCounts(counts, 3)
	require.Len(t, got, 3)
	// Descending by count, ties broken by name.
	assert.Equal(t, nameCount{Name: "b", Count: 3}, got[0])
	assert.Equal(t, nameCount{Name: "c", Count: 3}, got[1])
	assert.Equal(t, nameCount{Name: "d", Count: 2}, got[2])

	all := topCounts(counts, 0)
	assert.Len(t, all, 4)
}

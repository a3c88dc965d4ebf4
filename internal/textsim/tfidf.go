// Package textsim builds a term-frequency/inverse-document-frequency vector
// space over a corpus of free-text documents and scores unseen text against
// corpus members with cosine similarity.
//
// The vectorizer is re-fit from scratch for every corpus snapshot; there is
// no incremental vocabulary growth. Tokenization targets English keywords
// (unigrams plus bigrams, stopword-filtered), so non-English text degrades to
// near-zero similarity instead of failing.
package textsim

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// DefaultMaxFeatures bounds the fitted vocabulary size.
const DefaultMaxFeatures = 1000

var tokenPattern = regexp.MustCompile(`[^a-z0-9_-]+`)

// Vector is a sparse L2-normalized TF-IDF vector keyed by vocabulary index.
type Vector map[int]float64

// Vectorizer is a fitted TF-IDF vector space. It is immutable after Fit and
// safe for concurrent Transform calls.
type Vectorizer struct {
	vocab       map[string]int
	idf         []float64
	totalDocs   int
	maxFeatures int
}

// Fit builds a vectorizer over the corpus, selecting at most maxFeatures
// terms by corpus frequency. A maxFeatures of zero or below falls back to
// DefaultMaxFeatures. An empty or all-blank corpus yields a vectorizer with
// an empty vocabulary; every transform then produces an empty vector.
func Fit(corpus []string, maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}

	v := &Vectorizer{
		vocab:       make(map[string]int),
		maxFeatures: maxFeatures,
		totalDocs:   len(corpus),
	}

	docFreq := make(map[string]int)
	termCount := make(map[string]int)
	for _, doc := range corpus {
		terms := Tokenize(doc)
		seen := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			termCount[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	if len(termCount) == 0 {
		return v
	}

	// Keep the most frequent terms; ties break lexicographically so a re-fit
	// over the same corpus always produces the same vocabulary.
	terms := make([]string, 0, len(termCount))
	for term := range termCount {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termCount[terms[i]] != termCount[terms[j]] {
			return termCount[terms[i]] > termCount[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	v.idf = make([]float64, len(terms))
	for i, term := range terms {
		v.vocab[term] = i
		// Smoothed IDF keeps weights finite for terms present in every doc.
		v.idf[i] = math.Log(float64(1+v.totalDocs)/float64(1+docFreq[term])) + 1
	}

	return v
}

// TransformAll transforms every document of a corpus, typically the one the
// vectorizer was fitted on.
func (v *Vectorizer) TransformAll(docs []string) []Vector {
	vectors := make([]Vector, len(docs))
	for i, doc := range docs {
		vectors[i] = v.Transform(doc)
	}
	return vectors
}

// Transform maps text into the fitted vector space. Terms outside the
// vocabulary are ignored. The returned vector is L2-normalized, so the dot
// product of two transforms is their cosine similarity.
func (v *Vectorizer) Transform(text string) Vector {
	vec := make(Vector)
	if len(v.vocab) == 0 {
		return vec
	}

	for _, term := range Tokenize(text) {
		if idx, ok := v.vocab[term]; ok {
			vec[idx] += v.idf[idx]
		}
	}

	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for idx := range vec {
		vec[idx] /= norm
	}
	return vec
}

// VocabularySize reports the number of fitted terms.
func (v *Vectorizer) VocabularySize() int {
	return len(v.vocab)
}

// Cosine returns the cosine similarity of two normalized vectors, floored at
// zero. Empty vectors score zero against everything.
func Cosine(a, b Vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for idx, w := range a {
		dot += w * b[idx]
	}
	if dot < 0 {
		return 0
	}
	return dot
}

// Tokenize lowercases the text, splits it into alphanumeric unigrams,
// filters English stopwords and single-character fragments, and appends the
// bigrams of the surviving sequence.
func Tokenize(text string) []string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}

	raw := tokenPattern.Split(text, -1)
	unigrams := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len(tok) < 2 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		unigrams = append(unigrams, tok)
	}

	terms := make([]string, 0, len(unigrams)*2)
	terms = append(terms, unigrams...)
	for i := 0; i+1 < len(unigrams); i++ {
		terms = append(terms, unigrams[i]+" "+unigrams[i+1])
	}
	return terms
}

package server

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed candidate_schema.json
var candidateSchemaJSON string

var candidateSchema = gojsonschema.NewStringLoader(candidateSchemaJSON)

// validateCandidate checks a raw analyze request body against the candidate
// profile schema. It returns a flat message listing every violation.
func validateCandidate(body []byte) error {
	result, err := gojsonschema.Validate(candidateSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("invalid candidate profile: %s", strings.Join(msgs, "; "))
}

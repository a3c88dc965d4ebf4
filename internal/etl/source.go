package etl

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// SourceCase is one scraped row from the case_details table, as-is.
type SourceCase struct {
	ID                  int64
	University          string
	Program             string
	StudentBackground   string
	GPA                 string
	LanguageScore       string
	AdmittedUniversity  string
	AdmittedProgram     string
	UndergradUniversity string
	UndergradMajor      string
	BasicBackground     string
	KeyExperience       string
}

// SourceReader streams raw cases out of the scraper database.
type SourceReader struct {
	db *sql.DB
}

// OpenSource connects to the scraper database.
func OpenSource(ctx context.Context, dsn string) (*SourceReader, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open source database: %w", err)
	}
	db.SetMaxOpenConns(4)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping source database: %w", err)
	}
	return &SourceReader{db: db}, nil
}

// NewSourceReader wraps an existing connection, used by tests.
func NewSourceReader(db *sql.DB) *SourceReader {
	return &SourceReader{db: db}
}

func (s *SourceReader) Close() error {
	return s.db.Close()
}

const sourceQuery = `
SELECT
	id,
	COALESCE(university, ''),
	COALESCE(program, ''),
	COALESCE(student_background, ''),
	COALESCE(gpa, ''),
	COALESCE(language_score, ''),
	COALESCE(admitted_university, ''),
	COALESCE(admitted_program, ''),
	COALESCE(undergraduate_university, ''),
	COALESCE(undergraduate_major, ''),
	COALESCE(basic_background, ''),
	COALESCE(key_experience, '')
FROM case_details
ORDER BY id`

// FetchAll loads every raw case.
func (s *SourceReader) FetchAll(ctx context.Context) ([]SourceCase, error) {
	rows, err := s.db.QueryContext(ctx, sourceQuery)
	if err != nil {
		return nil, fmt.Errorf("query case_details: %w", err)
	}
	defer rows.Close()

	var cases []SourceCase
	for rows.Next() {
		var c SourceCase
		if err := rows.Scan(
			&c.ID, &c.University, &c.Program, &c.StudentBackground,
			&c.GPA, &c.LanguageScore, &c.AdmittedUniversity, &c.AdmittedProgram,
			&c.UndergradUniversity, &c.UndergradMajor, &c.BasicBackground, &c.KeyExperience,
		); err != nil {
			return nil, fmt.Errorf("scan case_details row: %w", err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate case_details: %w", err)
	}
	return cases, nil
}

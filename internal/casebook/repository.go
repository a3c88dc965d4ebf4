package casebook

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresRepository reads and writes processed cases in the analytics
// database. NULL columns map to the documented sentinel values so callers
// never see partial rows.
type PostgresRepository struct {
	db *sql.DB
}

// OpenPostgres connects to the analytics database and verifies the
// connection.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepository wraps an existing connection, used by tests.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close releases the underlying connection pool.
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping verifies database reachability, used by health checks.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

const fetchAllQuery = `
SELECT id, original_id,
       gpa_4_scale, gpa_original, gpa_scale_type,
       undergraduate_university, undergraduate_university_tier,
       undergraduate_major, undergraduate_major_category,
       language_test_type, language_total_score,
       language_reading, language_listening, language_speaking, language_writing,
       gre_total, gmat_total,
       research_experience_count, internship_experience_count, work_experience_years,
       admitted_university, admitted_program, admitted_country, admitted_degree_type,
       experience_text
FROM processed_cases
ORDER BY id`

// FetchAll loads every processed case.
func (r *PostgresRepository) FetchAll(ctx context.Context) ([]HistoricalCase, error) {
	rows, err := r.db.QueryContext(ctx, fetchAllQuery)
	if err != nil {
		return nil, fmt.Errorf("query processed cases: %w", err)
	}
	defer rows.Close()

	var cases []HistoricalCase
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan processed case: %w", err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate processed cases: %w", err)
	}
	return cases, nil
}

func scanCase(rows *sql.Rows) (HistoricalCase, error) {
	var (
		c                                  HistoricalCase
		sourceID                           sql.NullInt64
		gpa, workYears                     sql.NullFloat64
		gpaOriginal, gpaScale              sql.NullString
		university, tier, major, category  sql.NullString
		testType                           sql.NullString
		total, reading, listening          sql.NullInt64
		speaking, writing                  sql.NullInt64
		gre, gmat, research, internship    sql.NullInt64
		admUniversity, admProgram          sql.NullString
		admCountry, admDegree, experience  sql.NullString
	)

	err := rows.Scan(
		&c.CaseID, &sourceID,
		&gpa, &gpaOriginal, &gpaScale,
		&university, &tier,
		&major, &category,
		&testType, &total,
		&reading, &listening, &speaking, &writing,
		&gre, &gmat,
		&research, &internship, &workYears,
		&admUniversity, &admProgram, &admCountry, &admDegree,
		&experience,
	)
	if err != nil {
		return c, err
	}

	c.SourceID = sourceID.Int64
	c.GPA = gpa.Float64
	c.GPAOriginal = gpaOriginal.String
	c.GPAScaleType = gpaScale.String
	c.UndergradUniversity = university.String
	c.Tier = tierOrUnknown(tier.String)
	c.UndergradMajor = major.String
	c.MajorCategory = categoryOrOther(category.String)
	c.LanguageTestType = LanguageTest(testType.String)
	c.LanguageTotalScore = int(total.Int64)
	c.LanguageReading = int(reading.Int64)
	c.LanguageListening = int(listening.Int64)
	c.LanguageSpeaking = int(speaking.Int64)
	c.LanguageWriting = int(writing.Int64)
	c.GRETotal = int(gre.Int64)
	c.GMATTotal = int(gmat.Int64)
	c.ResearchCount = int(research.Int64)
	c.InternshipCount = int(internship.Int64)
	c.WorkYears = workYears.Float64
	c.AdmittedUniversity = admUniversity.String
	c.AdmittedProgram = admProgram.String
	c.AdmittedCountry = admCountry.String
	c.AdmittedDegreeType = DegreeType(admDegree.String)
	c.ExperienceText = experience.String

	return c, nil
}

func tierOrUnknown(s string) Tier {
	switch Tier(s) {
	case TierC9, Tier985, Tier211, TierOrdinary:
		return Tier(s)
	default:
		return TierUnknown
	}
}

func categoryOrOther(s string) string {
	if s == "" {
		return "Other"
	}
	return s
}

const insertQuery = `
INSERT INTO processed_cases (
	original_id,
	gpa_4_scale, gpa_original, gpa_scale_type,
	undergraduate_university, undergraduate_university_tier,
	undergraduate_major, undergraduate_major_category,
	language_test_type, language_total_score,
	language_reading, language_listening, language_speaking, language_writing,
	gre_total, gmat_total,
	research_experience_count, internship_experience_count, work_experience_years,
	admitted_university, admitted_program, admitted_country, admitted_degree_type,
	experience_text
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
	$17, $18, $19, $20, $21, $22, $23, $24)`

// Insert writes one processed case, used by the ETL command.
func (r *PostgresRepository) Insert(ctx context.Context, c HistoricalCase) error {
	_, err := r.db.ExecContext(ctx, insertQuery,
		c.SourceID,
		c.GPA, c.GPAOriginal, c.GPAScaleType,
		c.UndergradUniversity, string(c.Tier),
		c.UndergradMajor, c.MajorCategory,
		string(c.LanguageTestType), c.LanguageTotalScore,
		c.LanguageReading, c.LanguageListening, c.LanguageSpeaking, c.LanguageWriting,
		c.GRETotal, c.GMATTotal,
		c.ResearchCount, c.InternshipCount, c.WorkYears,
		c.AdmittedUniversity, c.AdmittedProgram, c.AdmittedCountry, string(c.AdmittedDegreeType),
		c.ExperienceText,
	)
	if err != nil {
		return fmt.Errorf("insert processed case: %w", err)
	}
	return nil
}

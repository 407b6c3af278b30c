// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"admissions-automation/internal/common/errors"
	"admissions-automation/internal/models"
)

const applicationColumns = `id, status, created_at, updated_at, version, timeline,
	applicant_name, applicant_email, applicant_phone,
	personal_statement, academic_history, spiritual_testimony, character_references,
	documents, eligibility_result, spiritual_evaluation, academic_evaluation, interview_records`

// Postgres persists applications in a single applications table. Document,
// timeline, and evaluation associations live in JSONB columns; the version
// column is the optimistic counter checked by every write.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Get(ctx context.Context, id string) (*models.Application, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM applications
		WHERE id = $1`, applicationColumns), id)

	app, err := scanApplication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewApplicationNotFoundError(id)
		}
		return nil, errors.NewDatabaseQueryFailedError(err)
	}
	return app, nil
}

func (s *Postgres) SaveTimeline(ctx context.Context, id string, timeline []models.TimelineEvent, expectedVersion int64) error {
	raw, err := json.Marshal(timeline)
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE applications
		SET timeline = $2, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $3`, id, raw, expectedVersion)
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}
	return s.checkWrite(ctx, res, id)
}

func (s *Postgres) SaveStatus(ctx context.Context, id string, status models.ApplicationStatus, timeline []models.TimelineEvent, expectedVersion int64) error {
	raw, err := json.Marshal(timeline)
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE applications
		SET status = $2, timeline = $3, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $4`, id, string(status), raw, expectedVersion)
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}
	return s.checkWrite(ctx, res, id)
}

func (s *Postgres) List(ctx context.Context, f Filter) ([]*models.Application, error) {
	query := fmt.Sprintf(`SELECT %s FROM applications`, applicationColumns)
	args := []interface{}{}

	if len(f.StatusNotIn) > 0 {
		placeholders := make([]string, len(f.StatusNotIn))
		for i, st := range f.StatusNotIn {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args = append(args, string(st))
		}
		query += fmt.Sprintf(" WHERE status NOT IN (%s)", strings.Join(placeholders, ", "))
	}
	query += " ORDER BY created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError(err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, errors.NewDatabaseQueryFailedError(err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseQueryFailedError(err)
	}
	return apps, nil
}

// checkWrite distinguishes a stale version from a missing row when an
// optimistic update matched nothing.
func (s *Postgres) checkWrite(ctx context.Context, res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	err = s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM applications WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}
	if !exists {
		return errors.NewApplicationNotFoundError(id)
	}
	return errors.NewVersionConflictError(id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var (
		app                 models.Application
		status              string
		timeline            []byte
		academicHistory     []byte
		characterReferences []byte
		documents           []byte
		eligibilityResult   []byte
		spiritualEvaluation []byte
		academicEvaluation  []byte
		interviewRecords    []byte
		applicantName       sql.NullString
		applicantEmail      sql.NullString
		applicantPhone      sql.NullString
		personalStatement   sql.NullString
		spiritualTestimony  sql.NullString
	)

	err := row.Scan(
		&app.ID, &status, &app.CreatedAt, &app.UpdatedAt, &app.Version, &timeline,
		&applicantName, &applicantEmail, &applicantPhone,
		&personalStatement, &academicHistory, &spiritualTestimony, &characterReferences,
		&documents, &eligibilityResult, &spiritualEvaluation, &academicEvaluation, &interviewRecords,
	)
	if err != nil {
		return nil, err
	}

	app.Status = models.ApplicationStatus(status)
	app.ApplicantName = applicantName.String
	app.ApplicantEmail = applicantEmail.String
	app.ApplicantPhone = applicantPhone.String
	app.PersonalStatement = personalStatement.String
	app.SpiritualTestimony = spiritualTestimony.String

	if err := unmarshalInto(timeline, &app.Timeline); err != nil {
		return nil, err
	}
	if err := unmarshalInto(academicHistory, &app.AcademicHistory); err != nil {
		return nil, err
	}
	if err := unmarshalInto(characterReferences, &app.CharacterReferences); err != nil {
		return nil, err
	}
	if err := unmarshalInto(documents, &app.Documents); err != nil {
		return nil, err
	}
	if err := unmarshalInto(eligibilityResult, &app.EligibilityResult); err != nil {
		return nil, err
	}
	if err := unmarshalInto(spiritualEvaluation, &app.SpiritualEvaluation); err != nil {
		return nil, err
	}
	if err := unmarshalInto(academicEvaluation, &app.AcademicEvaluation); err != nil {
		return nil, err
	}
	if err := unmarshalInto(interviewRecords, &app.InterviewRecords); err != nil {
		return nil, err
	}

	return &app, nil
}

func unmarshalInto(raw []byte, dest interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

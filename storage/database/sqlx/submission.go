package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/form"
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
	"github.com/jaymarkubaran15-svg/memotrace/core/submission"
)

type submissionRow struct {
	ID        string      `db:"id"`
	SchemaID  null.String `db:"schema_id"`
	Kind      string      `db:"kind"`
	SubjectID string      `db:"subject_id"`
	Response  []byte      `db:"response"`
	CreatedAt time.Time   `db:"created_at"`
}

type submissionRepository struct {
	db *sqlx.DB
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *sqlx.DB) *submissionRepository {
	return &submissionRepository{db: db}
}

func (repo submissionRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.db
}

func (repo submissionRepository) fromRow(row submissionRow) submission.Submission {
	return submission.Submission{
		ID:        row.ID,
		SchemaID:  row.SchemaID.String,
		Kind:      schema.Kind(row.Kind),
		SubjectID: row.SubjectID,
		Response:  form.DecodeAnswers(row.Response),
		CreatedAt: row.CreatedAt,
	}
}

func (repo submissionRepository) CreateSubmission(ctx context.Context, sub *submission.Submission, exec ...core.DBExecutor) error {
	sub.ID = uuid.New().String()
	sub.CreatedAt = time.Now().UTC()

	data, err := form.EncodeAnswers(sub.Response)
	if err != nil {
		return errors.Wrap(err, "encoding submission response")
	}

	query := repo.db.Rebind(`INSERT INTO submissions (id, schema_id, kind, subject_id, response, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	_, err = repo.getExec(exec).ExecContext(ctx, query,
		sub.ID, null.NewString(sub.SchemaID, sub.SchemaID != ""), string(sub.Kind),
		sub.SubjectID, data, sub.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "inserting submission")
	}
	return nil
}

func (repo submissionRepository) QuerySubmissions(ctx context.Context, kind schema.Kind, exec ...core.DBExecutor) ([]submission.Submission, error) {
	var rows []submissionRow
	query := repo.db.Rebind(`SELECT id, schema_id, kind, subject_id, response, created_at
		FROM submissions WHERE kind = ? ORDER BY created_at DESC`)
	if err := repo.db.SelectContext(ctx, &rows, query, string(kind)); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}

	subs := make([]submission.Submission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, repo.fromRow(row))
	}
	return subs, nil
}

func (repo submissionRepository) GetSubmission(ctx context.Context, kind schema.Kind, subjectID string, exec ...core.DBExecutor) (submission.Submission, error) {
	var row submissionRow
	query := repo.db.Rebind(`SELECT id, schema_id, kind, subject_id, response, created_at
		FROM submissions WHERE kind = ? AND subject_id = ? ORDER BY created_at DESC LIMIT 1`)
	if err := repo.db.GetContext(ctx, &row, query, string(kind), subjectID); err != nil {
		if err == sql.ErrNoRows {
			return submission.Submission{}, submission.ErrNotFound
		}
		return submission.Submission{}, errors.Wrap(err, "finding submission")
	}
	return repo.fromRow(row), nil
}

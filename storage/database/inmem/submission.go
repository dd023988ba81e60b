package inmemdb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
	"github.com/jaymarkubaran15-svg/memotrace/core/submission"
)

type submissionRepository struct {
	db *DB
}

var _ submission.Repository = (*submissionRepository)(nil)

func NewSubmissionRepository(db *DB) *submissionRepository {
	return &submissionRepository{db: db}
}

func (repo *submissionRepository) CreateSubmission(_ context.Context, sub *submission.Submission, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sub.ID = uuid.New().String()
	sub.CreatedAt = time.Now().UTC()
	repo.db.submissions = append(repo.db.submissions, *sub)
	return nil
}

func (repo *submissionRepository) QuerySubmissions(_ context.Context, kind schema.Kind, _ ...core.DBExecutor) ([]submission.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	// newest first
	out := make([]submission.Submission, 0, len(repo.db.submissions))
	for i := len(repo.db.submissions) - 1; i >= 0; i-- {
		if repo.db.submissions[i].Kind == kind {
			out = append(out, repo.db.submissions[i])
		}
	}
	return out, nil
}

func (repo *submissionRepository) GetSubmission(_ context.Context, kind schema.Kind, subjectID string, _ ...core.DBExecutor) (submission.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for i := len(repo.db.submissions) - 1; i >= 0; i-- {
		sub := repo.db.submissions[i]
		if sub.Kind == kind && sub.SubjectID == subjectID {
			return sub, nil
		}
	}
	return submission.Submission{}, submission.ErrNotFound
}

package submission

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/form"
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
)

var (
	ErrNotFound        = errors.New("submission not found")
	ErrInvalidAnswers  = errors.New("answers failed validation")
	ErrConsentRequired = errors.New("data privacy consent is required")
)

type Repository interface {
	CreateSubmission(ctx context.Context, sub *Submission, exec ...core.DBExecutor) error
	QuerySubmissions(ctx context.Context, kind schema.Kind, exec ...core.DBExecutor) ([]Submission, error)
	GetSubmission(ctx context.Context, kind schema.Kind, subjectID string, exec ...core.DBExecutor) (Submission, error)
}

// SurveyMarker flags a subject as having completed the alumni survey.
// Satisfied by the user service.
type SurveyMarker interface {
	MarkSurveySubmitted(ctx context.Context, userID string) error
}

type ServiceInterface interface {
	Submit(ctx context.Context, kind schema.Kind, doc schema.Document, answers form.AnswerMap, subjectID string, consented bool) (Submission, error)
	Query(ctx context.Context, kind schema.Kind) ([]Submission, error)
	GetForSubject(ctx context.Context, kind schema.Kind, subjectID string) (Submission, error)
}

type service struct {
	db     core.DB
	repo   Repository
	marker SurveyMarker
	logger core.Logger
}

var _ ServiceInterface = (*service)(nil)

func NewService(db core.DB, repo Repository, marker SurveyMarker, logger core.Logger) *service {
	return &service{
		db:     db,
		repo:   repo,
		marker: marker,
		logger: logger,
	}
}

// Submit validates the answers against the document and, on success, records
// the response exactly once. Validation failure performs no I/O and returns
// a ValidationError carrying the per-field messages; the caller keeps its
// answers either way. Feedback submissions are gated on data privacy
// consent. A successful survey submit marks the subject's account.
func (svc *service) Submit(
	ctx context.Context,
	kind schema.Kind,
	doc schema.Document,
	answers form.AnswerMap,
	subjectID string,
	consented bool,
) (Submission, error) {
	if kind == schema.KindFeedback && !consented {
		return Submission{}, ErrConsentRequired
	}

	if fldErrs := form.Validate(doc, answers); len(fldErrs) > 0 {
		flds := make([]core.FieldError, 0, len(fldErrs))
		for key, msg := range fldErrs {
			flds = append(flds, core.FieldError{Field: key, Error: msg})
		}
		return Submission{}, core.NewValidationError(ErrInvalidAnswers, flds...)
	}

	sub := Submission{
		SchemaID:  doc.ID,
		Kind:      kind,
		SubjectID: subjectID,
		Response:  answers,
	}
	if err := svc.repo.CreateSubmission(ctx, &sub); err != nil {
		return Submission{}, errors.Wrap(err, "recording submission")
	}

	if kind == schema.KindSurvey {
		if err := svc.marker.MarkSurveySubmitted(ctx, subjectID); err != nil {
			// The response is recorded; a stale flag is recoverable.
			svc.logger.Error(fmt.Sprintf("marking survey submitted for %s: %v", subjectID, err), err)
		}
	}
	return sub, nil
}

func (svc *service) Query(ctx context.Context, kind schema.Kind) ([]Submission, error) {
	subs, err := svc.repo.QuerySubmissions(ctx, kind)
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	return subs, nil
}

func (svc *service) GetForSubject(ctx context.Context, kind schema.Kind, subjectID string) (Submission, error) {
	sub, err := svc.repo.GetSubmission(ctx, kind, subjectID)
	if err != nil {
		return Submission{}, err
	}
	return sub, nil
}

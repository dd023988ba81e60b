package schema

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/jaymarkubaran15-svg/memotrace/core"
)

var ErrNotFound = errors.New("schema not found")

type Repository interface {
	GetSchema(ctx context.Context, kind Kind, exec ...core.DBExecutor) (Document, error)
	SaveSchema(ctx context.Context, kind Kind, doc Document, exec ...core.DBExecutor) (Document, error)
}

type ServiceInterface interface {
	Get(ctx context.Context, kind Kind) Document
	Save(ctx context.Context, kind Kind, doc Document) (Document, error)
}

type service struct {
	db     core.DB
	repo   Repository
	logger core.Logger
}

var _ ServiceInterface = (*service)(nil)

func NewService(db core.DB, repo Repository, logger core.Logger) *service {
	return &service{
		db:     db,
		repo:   repo,
		logger: logger,
	}
}

// Get loads the stored schema for kind. An absent document or a load failure
// yields an empty document so editing and rendering can proceed; failures
// other than absence are logged.
func (svc *service) Get(ctx context.Context, kind Kind) Document {
	doc, err := svc.repo.GetSchema(ctx, kind)
	if err != nil {
		if !errors.Is(errors.Cause(err), ErrNotFound) {
			svc.logger.Error(fmt.Sprintf("loading %s schema: %v", kind, err), err)
		}
		return Document{Sections: []Section{}}
	}
	doc.Normalize()
	return doc
}

// Save replaces the stored document for kind wholesale, stripping empty
// placeholder options first. Last write wins; on failure the caller keeps
// its in-memory edits.
func (svc *service) Save(ctx context.Context, kind Kind, doc Document) (Document, error) {
	ed := NewEditor(kind, doc)
	ed.CleanOptions()
	doc = ed.Document()
	if err := validateDocument(doc); err != nil {
		return Document{}, err
	}
	saved, err := svc.repo.SaveSchema(ctx, kind, doc)
	if err != nil {
		return Document{}, errors.Wrap(err, "saving schema")
	}
	saved.Normalize()
	return saved, nil
}

// validateDocument enforces the invariants persistence relies on: every
// field has a key, unique within the document.
func validateDocument(doc Document) error {
	seen := make(map[string]struct{}, doc.TotalFields())
	var flds []core.FieldError
	for _, sec := range doc.Sections {
		for _, f := range sec.Fields {
			if f.Key == "" {
				flds = append(flds, core.FieldError{Field: "key", Error: "field key is required"})
				continue
			}
			if _, ok := seen[f.Key]; ok {
				flds = append(flds, core.FieldError{Field: f.Key, Error: "duplicate field key"})
			}
			seen[f.Key] = struct{}{}
		}
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

package form

import (
	"context"

	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
)

// AnswerStore is the crash-resume cache for in-progress answers, namespaced
// by schema kind and subject so the two forms never clobber each other. It
// is advisory only; the submission pipeline is the authoritative write path.
type AnswerStore interface {
	// Load returns the cached answers for (kind, subjectID); an absent or
	// unreadable entry yields an empty map, never an error.
	Load(ctx context.Context, kind schema.Kind, subjectID string) AnswerMap
	Save(ctx context.Context, kind schema.Kind, subjectID string, answers AnswerMap) error
	Clear(ctx context.Context, kind schema.Kind, subjectID string) error
}

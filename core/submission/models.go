package submission

import (
	"time"

	"github.com/jaymarkubaran15-svg/memotrace/core/form"
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
)

// Submission is one accepted form response attributed to a subject.
type Submission struct {
	ID        string         `json:"id"`
	SchemaID  string         `json:"schema_id,omitempty"`
	Kind      schema.Kind    `json:"kind"`
	SubjectID string         `json:"subject_id"`
	Response  form.AnswerMap `json:"response"`
	CreatedAt time.Time      `json:"created_at"` // UTC
}

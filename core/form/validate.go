package form

import (
	"fmt"

	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
)

// Validate checks every visible required field for a non-empty answer and
// returns a field-key -> message mapping; an empty map means the form can be
// submitted. Hidden fields are exempt regardless of Required. Validation is
// local-only and never touches the persistence boundary.
func Validate(doc schema.Document, answers AnswerMap) map[string]string {
	errs := make(map[string]string)
	for _, sec := range doc.Sections {
		for _, f := range sec.Fields {
			if !Visible(f, answers) {
				continue
			}
			ans := answers[f.Key]
			if f.Required && ans.IsEmpty() {
				errs[f.Key] = fmt.Sprintf("%s is required", f.Key)
				continue
			}
			// A selected "Others" checkbox option requires its paired
			// free-text answer.
			if f.Type == schema.Checkbox && ans.Contains(OthersOption) {
				if answers[OthersKey(f.Key)].IsEmpty() {
					errs[OthersKey(f.Key)] = fmt.Sprintf("%s is required", OthersKey(f.Key))
				}
			}
		}
	}
	return errs
}

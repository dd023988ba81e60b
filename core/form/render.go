package form

import (
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
)

// RenderedField is one visible field prepared for display. Number is the
// field's position among the visible fields of its section, starting at 1.
type RenderedField struct {
	Number int
	Field  schema.Field
	Answer Answer
}

// RenderedSection is a section restricted to its currently visible fields.
type RenderedSection struct {
	Title  string
	Fields []RenderedField
}

// Render produces the display view of a document for the given answers:
// sections in order, visible fields only, numbered per section. Hidden
// fields are skipped and do not consume a number.
func Render(doc schema.Document, answers AnswerMap) []RenderedSection {
	out := make([]RenderedSection, 0, len(doc.Sections))
	for _, sec := range doc.Sections {
		rendered := RenderedSection{Title: sec.Title, Fields: []RenderedField{}}
		num := 0
		for _, f := range sec.Fields {
			if !Visible(f, answers) {
				continue
			}
			num++
			rendered.Fields = append(rendered.Fields, RenderedField{
				Number: num,
				Field:  f,
				Answer: answers[f.Key],
			})
		}
		out = append(out, rendered)
	}
	return out
}

// Progress returns completion as answered keys over the total field count.
// The denominator counts every field in the document, hidden ones included,
// so a form with conditional fields tops out below 1 until their conditions
// are met. Callers relying on this should not expect hidden fields to be
// subtracted.
func Progress(doc schema.Document, answers AnswerMap) float64 {
	total := doc.TotalFields()
	if total == 0 {
		return 0
	}
	answered := 0
	for _, a := range answers {
		if !a.IsEmpty() {
			answered++
		}
	}
	return float64(answered) / float64(total)
}

package schema

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrSectionNotFound = errors.New("section index out of range")
	ErrFieldNotFound   = errors.New("field index out of range")
	ErrOptionNotFound  = errors.New("option index out of range")
	ErrUnknownProperty = errors.New("unknown field property")
)

// Editor owns a mutable Document during an edit session. It is not safe for
// concurrent use; each editing session gets its own Editor and the final
// document is persisted as a whole.
type Editor struct {
	kind Kind
	doc  Document
}

func NewEditor(kind Kind, doc Document) *Editor {
	doc.Normalize()
	return &Editor{kind: kind, doc: doc}
}

func (e *Editor) Kind() Kind { return e.kind }

// Document returns the current state of the edited document.
func (e *Editor) Document() Document { return e.doc }

// AddSection inserts a new empty section with an auto-generated title.
// Survey schemas append ("Section N"); feedback schemas prepend
// ("New Section N"), keeping the newest section on top.
func (e *Editor) AddSection() {
	n := len(e.doc.Sections) + 1
	if e.kind == KindFeedback {
		sec := Section{Title: fmt.Sprintf("New Section %d", n), Fields: []Field{}}
		e.doc.Sections = append([]Section{sec}, e.doc.Sections...)
		return
	}
	sec := Section{Title: fmt.Sprintf("Section %d", n), Fields: []Field{}}
	e.doc.Sections = append(e.doc.Sections, sec)
}

// RemoveSection deletes the section at i. Out-of-range indices are a no-op;
// later sections shift down.
func (e *Editor) RemoveSection(i int) {
	if i < 0 || i >= len(e.doc.Sections) {
		return
	}
	e.doc.Sections = append(e.doc.Sections[:i], e.doc.Sections[i+1:]...)
}

func (e *Editor) UpdateSectionTitle(i int, title string) error {
	if i < 0 || i >= len(e.doc.Sections) {
		return ErrSectionNotFound
	}
	e.doc.Sections[i].Title = title
	return nil
}

// AddField appends a new field to section s with a generated key derived
// from the section title and the first free ordinal, Type defaulting to Text.
// Ordinals already taken by surviving fields are skipped so a remove-then-add
// never reissues a key still in use.
func (e *Editor) AddField(s int) error {
	if s < 0 || s >= len(e.doc.Sections) {
		return ErrSectionNotFound
	}
	sec := &e.doc.Sections[s]

	taken := make(map[string]bool, len(sec.Fields))
	for _, f := range sec.Fields {
		taken[f.Key] = true
	}
	slug := Slugify(sec.Title)
	var key string
	for n := len(sec.Fields) + 1; ; n++ {
		key = fmt.Sprintf("%s_field%d", slug, n)
		if !taken[key] {
			break
		}
	}
	sec.Fields = append(sec.Fields, Field{
		Key:     key,
		Label:   "",
		Type:    Text,
		Options: []string{},
	})
	return nil
}

func (e *Editor) RemoveField(s, f int) error {
	if s < 0 || s >= len(e.doc.Sections) {
		return ErrSectionNotFound
	}
	sec := &e.doc.Sections[s]
	if f < 0 || f >= len(sec.Fields) {
		return ErrFieldNotFound
	}
	sec.Fields = append(sec.Fields[:f], sec.Fields[f+1:]...)
	return nil
}

// UpdateField mutates one property of the field at (s, f) by name. Changing
// Type away from a choice type deliberately keeps any existing Options; they
// are dropped by CleanOptions-aware persistence, not here.
func (e *Editor) UpdateField(s, f int, prop string, value string) error {
	fld, err := e.field(s, f)
	if err != nil {
		return err
	}
	switch prop {
	case "key":
		fld.Key = value
	case "label":
		fld.Label = value
	case "type":
		typ, err := ParseFieldType(value)
		if err != nil {
			return err
		}
		fld.Type = typ
	case "required":
		fld.Required = value == "true"
	case "showWhenKey":
		if fld.ShowWhen == nil {
			fld.ShowWhen = &ShowWhen{}
		}
		fld.ShowWhen.Key = value
		if fld.ShowWhen.Key == "" && fld.ShowWhen.Equals == "" {
			fld.ShowWhen = nil
		}
	case "showWhenEquals":
		if fld.ShowWhen == nil {
			fld.ShowWhen = &ShowWhen{}
		}
		fld.ShowWhen.Equals = value
	default:
		return errors.Wrap(ErrUnknownProperty, prop)
	}
	return nil
}

func (e *Editor) AddOption(s, f int) error {
	fld, err := e.field(s, f)
	if err != nil {
		return err
	}
	fld.Options = append(fld.Options, "")
	return nil
}

func (e *Editor) UpdateOption(s, f, o int, value string) error {
	fld, err := e.field(s, f)
	if err != nil {
		return err
	}
	if o < 0 || o >= len(fld.Options) {
		return ErrOptionNotFound
	}
	fld.Options[o] = value
	return nil
}

func (e *Editor) RemoveOption(s, f, o int) error {
	fld, err := e.field(s, f)
	if err != nil {
		return err
	}
	if o < 0 || o >= len(fld.Options) {
		return ErrOptionNotFound
	}
	fld.Options = append(fld.Options[:o], fld.Options[o+1:]...)
	return nil
}

// MoveSection reorders the section at from to position to.
func (e *Editor) MoveSection(from, to int) error {
	n := len(e.doc.Sections)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrSectionNotFound
	}
	sec := e.doc.Sections[from]
	rest := append(e.doc.Sections[:from], e.doc.Sections[from+1:]...)
	e.doc.Sections = append(rest[:to], append([]Section{sec}, rest[to:]...)...)
	return nil
}

// MoveField reorders a field within its section.
func (e *Editor) MoveField(s, from, to int) error {
	if s < 0 || s >= len(e.doc.Sections) {
		return ErrSectionNotFound
	}
	sec := &e.doc.Sections[s]
	n := len(sec.Fields)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrFieldNotFound
	}
	fld := sec.Fields[from]
	rest := append(sec.Fields[:from], sec.Fields[from+1:]...)
	sec.Fields = append(rest[:to], append([]Field{fld}, rest[to:]...)...)
	return nil
}

// Filter returns a view of the document restricted to sections whose title,
// or any field label or key, contains query (case-insensitive). An empty
// query returns the full document. The receiver is never mutated.
func (e *Editor) Filter(query string) Document {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return e.doc
	}
	out := Document{ID: e.doc.ID, Sections: []Section{}}
	for _, sec := range e.doc.Sections {
		if strings.Contains(strings.ToLower(sec.Title), query) {
			out.Sections = append(out.Sections, sec)
			continue
		}
		for _, f := range sec.Fields {
			if strings.Contains(strings.ToLower(f.Label), query) ||
				strings.Contains(strings.ToLower(f.Key), query) {
				out.Sections = append(out.Sections, sec)
				break
			}
		}
	}
	return out
}

// CleanOptions strips empty-string options from every field, so placeholder
// options added during editing never persist.
func (e *Editor) CleanOptions() {
	for s := range e.doc.Sections {
		for f := range e.doc.Sections[s].Fields {
			fld := &e.doc.Sections[s].Fields[f]
			opts := fld.Options[:0]
			for _, o := range fld.Options {
				if strings.TrimSpace(o) != "" {
					opts = append(opts, o)
				}
			}
			fld.Options = opts
		}
	}
}

func (e *Editor) field(s, f int) (*Field, error) {
	if s < 0 || s >= len(e.doc.Sections) {
		return nil, ErrSectionNotFound
	}
	sec := &e.doc.Sections[s]
	if f < 0 || f >= len(sec.Fields) {
		return nil, ErrFieldNotFound
	}
	return &sec.Fields[f], nil
}

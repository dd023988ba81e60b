package schema

import (
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Kind identifies which of the two dynamic forms a schema document drives.
type Kind string

const (
	KindSurvey   Kind = "survey"
	KindFeedback Kind = "feedback"
)

var ErrUnknownKind = errors.New("unknown schema kind")

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSurvey, KindFeedback:
		return Kind(s), nil
	}
	return "", ErrUnknownKind
}

// FieldType is the closed set of input kinds a Field can take. It governs the
// rendering strategy and the shape of the stored answer.
type FieldType uint8

const (
	Text FieldType = iota
	Textarea
	Email
	Date
	Select
	Radio
	Checkbox
	CheckboxMatrix
	Multiple
)

var (
	fieldTypeNames = map[FieldType]string{
		Text:           "text",
		Textarea:       "textarea",
		Email:          "email",
		Date:           "date",
		Select:         "select",
		Radio:          "radio",
		Checkbox:       "checkbox",
		CheckboxMatrix: "checkbox-matrix",
		Multiple:       "multiple",
	}
	fieldTypeValues = map[string]FieldType{}

	ErrUnknownFieldType = errors.New("unknown field type")
)

func init() {
	for t, name := range fieldTypeNames {
		fieldTypeValues[name] = t
	}
}

func (t FieldType) String() string {
	return fieldTypeNames[t]
}

func ParseFieldType(s string) (FieldType, error) {
	if t, ok := fieldTypeValues[s]; ok {
		return t, nil
	}
	return Text, errors.Wrap(ErrUnknownFieldType, s)
}

// IsChoice reports whether the type carries an Options list.
func (t FieldType) IsChoice() bool {
	switch t {
	case Select, Radio, Checkbox:
		return true
	case Text, Textarea, Email, Date, CheckboxMatrix, Multiple:
		return false
	}
	return false
}

// AnswerShape describes the value shape a field type stores in an AnswerMap.
type AnswerShape uint8

const (
	ShapeScalar AnswerShape = iota
	ShapeList
	ShapeMatrix
)

func (t FieldType) AnswerShape() AnswerShape {
	switch t {
	case Checkbox, Multiple:
		return ShapeList
	case CheckboxMatrix:
		return ShapeMatrix
	case Text, Textarea, Email, Date, Select, Radio:
		return ShapeScalar
	}
	return ShapeScalar
}

// ShowWhen gates a field's visibility on another field's answer.
// A field carrying one is rendered and validated only when the answer at Key
// equals Equals. Compound conditions are not supported.
type ShowWhen struct {
	Key    string
	Equals string
}

// Field is one input unit within a Section.
type Field struct {
	// Key is the stable identifier used as the answer-map key. Legacy
	// documents keyed feedback answers by label or a separate id; decoding
	// normalizes those onto Key.
	Key      string
	Label    string
	Type     FieldType
	Required bool
	Options  []string
	ShowWhen *ShowWhen
}

// Section is an ordered group of fields with a display title.
// Titles need not be unique.
type Section struct {
	Title  string
	Fields []Field
}

// Document is an ordered section/field definition describing a dynamic form.
// Section and field order is significant and preserved verbatim on save.
type Document struct {
	// ID is assigned by the persistence boundary; empty until first save.
	ID       string
	Sections []Section
}

// Normalize guarantees the invariants a loaded document must hold: a non-nil
// Sections sequence and non-nil field lists.
func (d *Document) Normalize() {
	if d.Sections == nil {
		d.Sections = []Section{}
	}
	for i := range d.Sections {
		if d.Sections[i].Fields == nil {
			d.Sections[i].Fields = []Field{}
		}
	}
}

// TotalFields counts every field across all sections, hidden or not.
func (d *Document) TotalFields() int {
	var n int
	for _, sec := range d.Sections {
		n += len(sec.Fields)
	}
	return n
}

// FieldByKey returns the first field with the given key.
func (d *Document) FieldByKey(key string) (Field, bool) {
	for _, sec := range d.Sections {
		for _, f := range sec.Fields {
			if f.Key == key {
				return f, true
			}
		}
	}
	return Field{}, false
}

// Wire representation. The survey form persists its field list under
// "fields", the feedback form under "questions"; both decode into the same
// in-memory shape.

type (
	showWhenWire struct {
		Label  string `json:"label"`
		Equals string `json:"equals"`
	}

	fieldWire struct {
		Key      string        `json:"key,omitempty"`
		ID       string        `json:"id,omitempty"`
		Label    string        `json:"label"`
		Type     string        `json:"type"`
		Required bool          `json:"required,omitempty"`
		Options  []string      `json:"options"`
		ShowWhen *showWhenWire `json:"showWhen,omitempty"`
	}

	sectionWire struct {
		Title     string      `json:"title"`
		Fields    []fieldWire `json:"fields,omitempty"`
		Questions []fieldWire `json:"questions,omitempty"`
	}

	documentWire struct {
		ID       string        `json:"id,omitempty"`
		Sections []sectionWire `json:"sections"`
	}
)

var slugRegex = regexp.MustCompile(`\s+`)

// Slugify lowers a title and strips its whitespace, the way generated field
// keys embed their section title.
func Slugify(s string) string {
	return slugRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
}

// EncodeDocument marshals a document for the given schema kind.
func EncodeDocument(kind Kind, doc Document) ([]byte, error) {
	wire := documentWire{ID: doc.ID, Sections: make([]sectionWire, 0, len(doc.Sections))}
	for _, sec := range doc.Sections {
		fields := make([]fieldWire, 0, len(sec.Fields))
		for _, f := range sec.Fields {
			fw := fieldWire{
				Key:      f.Key,
				Label:    f.Label,
				Type:     f.Type.String(),
				Required: f.Required,
				Options:  f.Options,
			}
			if fw.Options == nil {
				fw.Options = []string{}
			}
			if f.ShowWhen != nil {
				fw.ShowWhen = &showWhenWire{Label: f.ShowWhen.Key, Equals: f.ShowWhen.Equals}
			}
			fields = append(fields, fw)
		}
		sw := sectionWire{Title: sec.Title}
		if kind == KindFeedback {
			sw.Questions = fields
		} else {
			sw.Fields = fields
		}
		wire.Sections = append(wire.Sections, sw)
	}
	return json.Marshal(wire)
}

// DecodeDocument unmarshals a document of the given kind, normalizing legacy
// answer keying (explicit id, else label) onto Field.Key.
func DecodeDocument(kind Kind, data []byte) (Document, error) {
	var wire documentWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return Document{}, errors.Wrap(err, "decoding schema document")
	}

	doc := Document{ID: wire.ID, Sections: make([]Section, 0, len(wire.Sections))}
	for _, sw := range wire.Sections {
		fields := sw.Fields
		if kind == KindFeedback && len(sw.Questions) > 0 {
			fields = sw.Questions
		}
		sec := Section{Title: sw.Title, Fields: make([]Field, 0, len(fields))}
		for _, fw := range fields {
			typ, err := ParseFieldType(fw.Type)
			if err != nil {
				return Document{}, err
			}
			key := fw.Key
			if key == "" {
				key = fw.ID
			}
			if key == "" {
				key = fw.Label
			}
			f := Field{
				Key:      key,
				Label:    fw.Label,
				Type:     typ,
				Required: fw.Required,
				Options:  fw.Options,
			}
			if f.Options == nil {
				f.Options = []string{}
			}
			if fw.ShowWhen != nil {
				f.ShowWhen = &ShowWhen{Key: fw.ShowWhen.Label, Equals: fw.ShowWhen.Equals}
			}
			sec.Fields = append(sec.Fields, f)
		}
		doc.Sections = append(doc.Sections, sec)
	}
	doc.Normalize()
	return doc, nil
}

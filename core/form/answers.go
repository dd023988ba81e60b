package form

import (
	"sort"

	json "github.com/goccy/go-json"

	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
)

// Answer holds one field's response. Exactly one of the three shapes is
// populated, matching the field type's AnswerShape.
type Answer struct {
	Scalar string
	List   []string
	Matrix map[string][]string
}

func ScalarAnswer(v string) Answer        { return Answer{Scalar: v} }
func ListAnswer(vs ...string) Answer      { return Answer{List: vs} }
func MatrixAnswer(m map[string][]string) Answer { return Answer{Matrix: m} }

// IsEmpty reports whether the answer counts as unanswered. An empty list or
// matrix is empty, the same as absence.
func (a Answer) IsEmpty() bool {
	if a.Scalar != "" {
		return false
	}
	if len(a.List) > 0 {
		return false
	}
	for _, row := range a.Matrix {
		if len(row) > 0 {
			return false
		}
	}
	return true
}

// Contains reports list membership for checkbox-style answers.
func (a Answer) Contains(option string) bool {
	for _, v := range a.List {
		if v == option {
			return true
		}
	}
	return false
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch {
	case a.Matrix != nil:
		return json.Marshal(a.Matrix)
	case a.List != nil:
		return json.Marshal(a.List)
	default:
		return json.Marshal(a.Scalar)
	}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Answer{Scalar: s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*a = Answer{List: list}
		return nil
	}
	var m map[string][]string
	if err := json.Unmarshal(data, &m); err == nil {
		*a = Answer{Matrix: m}
		return nil
	}
	// Unrecognized shapes (numbers, nested objects) read as unanswered.
	*a = Answer{}
	return nil
}

// AnswerMap holds the in-progress answers of one form session, keyed by
// field key. It is owned by a single session and not safe for concurrent
// use.
type AnswerMap map[string]Answer

// Update stores value under key, replacing any previous answer.
func (m AnswerMap) Update(key string, value Answer) {
	m[key] = value
}

// Toggle flips option membership in the list answer at key. Toggling the
// last member off deletes the key entirely, so an empty checkbox reads as
// unanswered.
func (m AnswerMap) Toggle(key, option string) {
	cur := m[key]
	for i, v := range cur.List {
		if v == option {
			cur.List = append(cur.List[:i], cur.List[i+1:]...)
			if len(cur.List) == 0 {
				delete(m, key)
				return
			}
			m[key] = cur
			return
		}
	}
	cur.List = append(cur.List, option)
	m[key] = cur
}

// Keys returns the answered keys in sorted order.
func (m AnswerMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// OthersKey returns the paired free-text key for a checkbox "Others" option.
func OthersKey(fieldKey string) string {
	return fieldKey + " (Others)"
}

// OthersOption is the checkbox option whose selection requires the paired
// free-text answer.
const OthersOption = "Others"

// EncodeAnswers serializes an answer map for the crash-resume cache.
func EncodeAnswers(m AnswerMap) ([]byte, error) {
	if m == nil {
		m = AnswerMap{}
	}
	return json.Marshal(m)
}

// DecodeAnswers deserializes a cached payload. A corrupt payload decodes to
// an empty map: a stale cache is treated as absent, never as an error.
func DecodeAnswers(data []byte) AnswerMap {
	if len(data) == 0 {
		return AnswerMap{}
	}
	var m AnswerMap
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return AnswerMap{}
	}
	return m
}

// Visible reports whether a field should be rendered and validated given the
// current answers. Evaluated on demand; never cached.
func Visible(f schema.Field, answers AnswerMap) bool {
	if f.ShowWhen == nil {
		return true
	}
	return answers[f.ShowWhen.Key].Scalar == f.ShowWhen.Equals
}

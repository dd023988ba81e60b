package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
)

func testDoc() schema.Document {
	return schema.Document{Sections: []schema.Section{
		{
			Title: "Employment",
			Fields: []schema.Field{
				{Key: "employed", Label: "Are you employed?", Type: schema.Radio, Required: true, Options: []string{"Yes", "No"}},
				{Key: "company", Label: "Company", Type: schema.Text, Required: true,
					ShowWhen: &schema.ShowWhen{Key: "employed", Equals: "Yes"}},
				{Key: "skills", Label: "Skills", Type: schema.Checkbox, Options: []string{"Go", "SQL", "Others"}},
			},
		},
		{
			Title: "Education",
			Fields: []schema.Field{
				{Key: "degree", Label: "Degree", Type: schema.Text, Required: true},
			},
		},
	}}
}

func TestVisible(t *testing.T) {
	doc := testDoc()
	company := doc.Sections[0].Fields[1]

	assert.True(t, Visible(doc.Sections[0].Fields[0], AnswerMap{}))
	assert.False(t, Visible(company, AnswerMap{}))
	assert.False(t, Visible(company, AnswerMap{"employed": ScalarAnswer("No")}))
	assert.True(t, Visible(company, AnswerMap{"employed": ScalarAnswer("Yes")}))
}

func TestAnswerMapUpdate(t *testing.T) {
	m := AnswerMap{}
	m.Update("k", ScalarAnswer("a"))
	m.Update("k", ScalarAnswer("b"))
	assert.Equal(t, "b", m["k"].Scalar)
}

func TestAnswerMapToggle(t *testing.T) {
	m := AnswerMap{}

	m.Toggle("skills", "Go")
	m.Toggle("skills", "SQL")
	assert.Equal(t, []string{"Go", "SQL"}, m["skills"].List)

	// toggling again removes
	m.Toggle("skills", "Go")
	assert.Equal(t, []string{"SQL"}, m["skills"].List)

	// removing the last member deletes the key
	m.Toggle("skills", "SQL")
	_, ok := m["skills"]
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	doc := testDoc()

	tests := []struct {
		name    string
		answers AnswerMap
		want    map[string]string
	}{
		{
			name:    "all required missing, hidden exempt",
			answers: AnswerMap{},
			want: map[string]string{
				"employed": "employed is required",
				"degree":   "degree is required",
			},
		},
		{
			name:    "conditional field becomes required once visible",
			answers: AnswerMap{"employed": ScalarAnswer("Yes"), "degree": ScalarAnswer("BSIT")},
			want:    map[string]string{"company": "company is required"},
		},
		{
			name: "empty list counts as empty",
			answers: AnswerMap{
				"employed": ListAnswer(),
				"degree":   ScalarAnswer("BSIT"),
			},
			want: map[string]string{"employed": "employed is required"},
		},
		{
			name: "others selected requires paired text",
			answers: AnswerMap{
				"employed": ScalarAnswer("No"),
				"degree":   ScalarAnswer("BSIT"),
				"skills":   ListAnswer("Go", "Others"),
			},
			want: map[string]string{"skills (Others)": "skills (Others) is required"},
		},
		{
			name: "others paired text provided",
			answers: AnswerMap{
				"employed":        ScalarAnswer("No"),
				"degree":          ScalarAnswer("BSIT"),
				"skills":          ListAnswer("Others"),
				"skills (Others)": ScalarAnswer("Rust"),
			},
			want: map[string]string{},
		},
		{
			name: "complete",
			answers: AnswerMap{
				"employed": ScalarAnswer("Yes"),
				"company":  ScalarAnswer("Acme"),
				"degree":   ScalarAnswer("BSIT"),
			},
			want: map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(doc, tt.answers))
		})
	}
}

func TestRenderNumbering(t *testing.T) {
	doc := testDoc()

	t.Run("hidden fields consume no number", func(t *testing.T) {
		secs := Render(doc, AnswerMap{})
		require.Len(t, secs, 2)

		require.Len(t, secs[0].Fields, 2) // company hidden
		assert.Equal(t, 1, secs[0].Fields[0].Number)
		assert.Equal(t, "employed", secs[0].Fields[0].Field.Key)
		assert.Equal(t, 2, secs[0].Fields[1].Number)
		assert.Equal(t, "skills", secs[0].Fields[1].Field.Key)

		// numbering resets per section
		require.Len(t, secs[1].Fields, 1)
		assert.Equal(t, 1, secs[1].Fields[0].Number)
	})

	t.Run("visibility re-evaluated per answer state", func(t *testing.T) {
		secs := Render(doc, AnswerMap{"employed": ScalarAnswer("Yes")})
		require.Len(t, secs[0].Fields, 3)
		assert.Equal(t, "company", secs[0].Fields[1].Field.Key)
		assert.Equal(t, 2, secs[0].Fields[1].Number)
	})

	t.Run("carries current answers", func(t *testing.T) {
		secs := Render(doc, AnswerMap{"employed": ScalarAnswer("No")})
		assert.Equal(t, "No", secs[0].Fields[0].Answer.Scalar)
	})
}

func TestProgress(t *testing.T) {
	doc := testDoc() // 4 fields total, "company" conditionally hidden

	assert.Equal(t, 0.0, Progress(doc, AnswerMap{}))
	assert.Equal(t, 0.25, Progress(doc, AnswerMap{"employed": ScalarAnswer("No")}))

	// hidden fields stay in the denominator: with "company" permanently
	// hidden the form cannot reach 1.0
	almost := AnswerMap{
		"employed": ScalarAnswer("No"),
		"skills":   ListAnswer("Go"),
		"degree":   ScalarAnswer("BSIT"),
	}
	assert.Equal(t, 0.75, Progress(doc, almost))

	assert.Equal(t, 0.0, Progress(schema.Document{}, AnswerMap{"x": ScalarAnswer("y")}))
}

func TestEncodeDecodeAnswers(t *testing.T) {
	m := AnswerMap{
		"a": ScalarAnswer("x"),
		"b": ListAnswer("1", "2"),
		"c": MatrixAnswer(map[string][]string{"row": {"col1"}}),
	}
	data, err := EncodeAnswers(m)
	require.NoError(t, err)

	got := DecodeAnswers(data)
	assert.Equal(t, m, got)
}

func TestDecodeAnswers_corruptPayload(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "truncated json", data: []byte(`{"a":`)},
		{name: "wrong top-level type", data: []byte(`[1,2,3]`)},
		{name: "null", data: []byte(`null`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeAnswers(tt.data)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestOthersKey(t *testing.T) {
	assert.Equal(t, "skills (Others)", OthersKey("skills"))
}

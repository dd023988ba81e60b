package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	echoapi "github.com/jaymarkubaran15-svg/memotrace/apps/api/echo"
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
	"github.com/jaymarkubaran15-svg/memotrace/core/user"
	testutil "github.com/jaymarkubaran15-svg/memotrace/tests"
)

// decodeSchemaResponse unwraps {success, schema} and decodes the document
// through the kind-aware codec.
func decodeSchemaResponse(t *testing.T, kind schema.Kind, body []byte) schema.Document {
	t.Helper()
	var resp echoapi.SchemaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if !resp.Success {
		t.Fatal("failed! success = false")
	}
	doc, err := schema.DecodeDocument(kind, resp.Schema)
	if err != nil {
		t.Fatalf("DecodeDocument() failed! err %v", err)
	}
	return doc
}

func Test_schemaApi_retrieve(t *testing.T) {
	app := setup(t)

	alumni := testutil.CreateUser(t, usrRepo, "Hero", "Alum", "hero@test.ph", "", user.RoleAlumni, true)
	token := getToken(t, alumni)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/schemas/survey", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Unknown kind", path: "/v1/schemas/quiz", token: token, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Empty document when none stored", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/schemas/survey", token)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		doc := decodeSchemaResponse(t, schema.KindSurvey, rec.Body.Bytes())
		if len(doc.Sections) != 0 {
			t.Errorf("failed! len(Sections) = %d; want 0", len(doc.Sections))
		}
	})
}

func Test_schemaApi_save(t *testing.T) {
	app := setup(t)

	alumni := testutil.CreateUser(t, usrRepo, "Hero", "Alum", "hero@test.ph", "", user.RoleAlumni, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "Root", "admin@test.ph", "", user.RoleAdmin, true)
	adminToken := getToken(t, admin)

	surveyDoc := []byte(`{
		"sections": [
			{
				"title": "Employment",
				"fields": [
					{"key": "employed", "label": "Are you currently employed?", "type": "radio", "required": true, "options": ["Yes", "No"]},
					{"key": "company", "label": "Company name", "type": "text", "showWhen": {"label": "employed", "equals": "Yes"}}
				]
			}
		]
	}`)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/schemas/survey", body: surveyDoc, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", path: "/v1/schemas/survey", body: surveyDoc, token: getToken(t, alumni),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Unknown kind", path: "/v1/schemas/quiz", body: surveyDoc, token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "Invalid document", path: "/v1/schemas/survey", body: []byte("not a document"), token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "invalid schema document"}),
		},
		{
			name: "Duplicate field keys", path: "/v1/schemas/survey", token: adminToken, wantCode: http.StatusBadRequest,
			body: []byte(`{"sections": [{"title": "Dup", "fields": [
				{"key": "employed", "label": "A", "type": "text"},
				{"key": "employed", "label": "B", "type": "text"}
			]}]}`),
			wantData: marchallObj(t, map[string]string{"employed": "duplicate field key"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Survey document round trip", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/schemas/survey", adminToken, surveyDoc)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		saved := decodeSchemaResponse(t, schema.KindSurvey, rec.Body.Bytes())
		if saved.ID == "" {
			t.Error("failed! saved document has no ID")
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/schemas/survey", adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		doc := decodeSchemaResponse(t, schema.KindSurvey, rec.Body.Bytes())

		if len(doc.Sections) != 1 || doc.Sections[0].Title != "Employment" {
			t.Fatalf("failed! sections = %+v", doc.Sections)
		}
		fields := doc.Sections[0].Fields
		if len(fields) != 2 {
			t.Fatalf("failed! len(fields) = %d; want 2", len(fields))
		}
		if fields[0].Key != "employed" || fields[0].Type != schema.Radio || !fields[0].Required {
			t.Errorf("failed! fields[0] = %+v", fields[0])
		}
		if fields[1].ShowWhen == nil || fields[1].ShowWhen.Key != "employed" || fields[1].ShowWhen.Equals != "Yes" {
			t.Errorf("failed! fields[1].ShowWhen = %+v", fields[1].ShowWhen)
		}
	})

	t.Run("Legacy feedback document keys answers by label", func(t *testing.T) {
		// questions without key or id; the label becomes the answer key
		feedbackDoc := []byte(`{
			"sections": [
				{
					"title": "Curriculum",
					"questions": [
						{"label": "How relevant was the curriculum to your job?", "type": "textarea", "required": true, "options": []}
					]
				}
			]
		}`)

		req, rec := newAuthRequest(http.MethodPost, "/v1/schemas/feedback", adminToken, feedbackDoc)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		doc := decodeSchemaResponse(t, schema.KindFeedback, rec.Body.Bytes())
		fields := doc.Sections[0].Fields
		if len(fields) != 1 {
			t.Fatalf("failed! len(fields) = %d; want 1", len(fields))
		}
		if want := "How relevant was the curriculum to your job?"; fields[0].Key != want {
			t.Errorf("failed! Key = %q; want %q", fields[0].Key, want)
		}

		// the wire payload must use the feedback vocabulary
		var resp echoapi.SchemaResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		var wire struct {
			Sections []map[string]json.RawMessage `json:"sections"`
		}
		if err := json.Unmarshal(resp.Schema, &wire); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if _, ok := wire.Sections[0]["questions"]; !ok {
			t.Error(`failed! feedback section not serialized under "questions"`)
		}
		if _, ok := wire.Sections[0]["fields"]; ok {
			t.Error(`failed! feedback section serialized under "fields"`)
		}
	})
}

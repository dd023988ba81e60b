package tests

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"testing"

	echoapi "github.com/jaymarkubaran15-svg/memotrace/apps/api/echo"
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
	"github.com/jaymarkubaran15-svg/memotrace/core/user"
	testutil "github.com/jaymarkubaran15-svg/memotrace/tests"
)

// seedSurveySchema stores the document used by the form and submission tests:
// 2 sections, 5 fields, one of them conditional.
func seedSurveySchema(t *testing.T) schema.Document {
	t.Helper()
	doc := schema.Document{
		Sections: []schema.Section{
			{
				Title: "Personal",
				Fields: []schema.Field{
					{Key: "name", Label: "Full name", Type: schema.Text, Required: true},
					{Key: "gender", Label: "Gender", Type: schema.Radio, Options: []string{"Male", "Female"}},
				},
			},
			{
				Title: "Employment",
				Fields: []schema.Field{
					{Key: "employed", Label: "Are you currently employed?", Type: schema.Radio, Required: true, Options: []string{"Yes", "No"}},
					{Key: "company", Label: "Company name", Type: schema.Text, Required: true, ShowWhen: &schema.ShowWhen{Key: "employed", Equals: "Yes"}},
					{Key: "skills", Label: "Skills used at work", Type: schema.Checkbox, Options: []string{"Programming", "Communication", "Others"}},
				},
			},
		},
	}
	saved, err := schemaRepo.SaveSchema(context.Background(), schema.KindSurvey, doc)
	if err != nil {
		t.Fatalf("SaveSchema() failed: %v", err)
	}
	return saved
}

func getFormResponse(t *testing.T, app echoapi.Server, path, token string) echoapi.FormResponse {
	t.Helper()
	req, rec := newAuthRequest(http.MethodGet, path, token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp echoapi.FormResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	return resp
}

func Test_formApi_retrieve(t *testing.T) {
	app := setup(t)
	seedSurveySchema(t)

	alumni := testutil.CreateUser(t, usrRepo, "Hero", "Alum", "hero@test.ph", "", user.RoleAlumni, true)
	token := getToken(t, alumni)

	t.Run("Auth required", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		req, rec := newRequest(http.MethodGet, "/v1/forms/survey")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("Unknown kind", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}
		req, rec := newAuthRequest(http.MethodGet, "/v1/forms/quiz", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("Conditional field hidden until triggered", func(t *testing.T) {
		resp := getFormResponse(t, app, "/v1/forms/survey", token)

		if len(resp.Sections) != 2 {
			t.Fatalf("failed! len(Sections) = %d; want 2", len(resp.Sections))
		}
		employment := resp.Sections[1]
		if len(employment.Fields) != 2 {
			t.Fatalf("failed! len(Fields) = %d; want 2 (company hidden)", len(employment.Fields))
		}
		// hidden fields do not consume a number
		if employment.Fields[0].Key != "employed" || employment.Fields[0].Number != 1 {
			t.Errorf("failed! Fields[0] = %+v", employment.Fields[0])
		}
		if employment.Fields[1].Key != "skills" || employment.Fields[1].Number != 2 {
			t.Errorf("failed! Fields[1] = %+v", employment.Fields[1])
		}
		if resp.Progress != 0 {
			t.Errorf("failed! Progress = %v; want 0", resp.Progress)
		}
	})

	t.Run("Answering the trigger reveals the field", func(t *testing.T) {
		answers := marchallObj(t, map[string]string{"name": "Hero Alum", "employed": "Yes"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/forms/survey/answers", token, answers)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		resp := getFormResponse(t, app, "/v1/forms/survey", token)
		employment := resp.Sections[1]
		if len(employment.Fields) != 3 {
			t.Fatalf("failed! len(Fields) = %d; want 3", len(employment.Fields))
		}
		if employment.Fields[1].Key != "company" || employment.Fields[1].Number != 2 {
			t.Errorf("failed! Fields[1] = %+v", employment.Fields[1])
		}
		if employment.Fields[0].Answer.Scalar != "Yes" {
			t.Errorf("failed! employed answer = %+v", employment.Fields[0].Answer)
		}

		// the denominator counts hidden fields too: 2 answered of 5 total
		if want := 2.0 / 5.0; math.Abs(resp.Progress-want) > 1e-9 {
			t.Errorf("failed! Progress = %v; want %v", resp.Progress, want)
		}
	})
}

func Test_formApi_answers(t *testing.T) {
	app := setup(t)
	seedSurveySchema(t)

	alumni := testutil.CreateUser(t, usrRepo, "Hero", "Alum", "hero@test.ph", "", user.RoleAlumni, true)
	other := testutil.CreateUser(t, usrRepo, "Other", "Alum", "other@test.ph", "", user.RoleAlumni, true)
	token := getToken(t, alumni)

	answers := map[string]interface{}{
		"name":     "Hero Alum",
		"employed": "Yes",
		"skills":   []string{"Programming", "Communication"},
	}

	t.Run("Save and load", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/forms/survey/answers", token, marchallObj(t, answers))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/forms/survey/answers", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var resp echoapi.AnswersResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if got := resp.Answers["skills"]; !got.Contains("Programming") || !got.Contains("Communication") {
			t.Errorf("failed! skills = %+v", got)
		}
		if resp.Answers["name"].Scalar != "Hero Alum" {
			t.Errorf("failed! name = %+v", resp.Answers["name"])
		}
	})

	t.Run("Drafts are namespaced per subject", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/forms/survey/answers", getToken(t, other))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var resp echoapi.AnswersResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if len(resp.Answers) != 0 {
			t.Errorf("failed! Answers = %+v; want empty", resp.Answers)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/forms/survey/answers", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusNoContent)
		}

		if got := answerStore.Load(context.Background(), schema.KindSurvey, alumni.ID); len(got) != 0 {
			t.Errorf("failed! cached answers = %+v; want empty", got)
		}
	})

	t.Run("Corrupt payload reads as no answers", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/forms/survey/answers", token, []byte("{corrupt"))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var resp echoapi.AnswersResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if len(resp.Answers) != 0 {
			t.Errorf("failed! Answers = %+v; want empty", resp.Answers)
		}
	})
}

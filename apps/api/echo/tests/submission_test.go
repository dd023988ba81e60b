package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	echoapi "github.com/jaymarkubaran15-svg/memotrace/apps/api/echo"
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
	"github.com/jaymarkubaran15-svg/memotrace/core/submission"
	"github.com/jaymarkubaran15-svg/memotrace/core/user"
	testutil "github.com/jaymarkubaran15-svg/memotrace/tests"
)

func seedFeedbackSchema(t *testing.T) {
	t.Helper()
	doc := schema.Document{
		Sections: []schema.Section{
			{
				Title: "Curriculum",
				Fields: []schema.Field{
					{Key: "relevance", Label: "How relevant was the curriculum to your job?", Type: schema.Textarea, Required: true},
				},
			},
		},
	}
	if _, err := schemaRepo.SaveSchema(context.Background(), schema.KindFeedback, doc); err != nil {
		t.Fatalf("SaveSchema() failed: %v", err)
	}
}

func submitBody(t *testing.T, answers interface{}) []byte {
	t.Helper()
	return marchallObj(t, map[string]interface{}{"response": answers})
}

func Test_submissionApi_createSurvey(t *testing.T) {
	app := setup(t)
	seedSurveySchema(t)

	alumni := testutil.CreateUser(t, usrRepo, "Hero", "Alum", "hero@test.ph", "", user.RoleAlumni, true)
	token := getToken(t, alumni)

	validAnswers := map[string]interface{}{
		"name":     "Hero Alum",
		"employed": "Yes",
		"company":  "Acme Corp",
		"skills":   []string{"Programming"},
	}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Missing required fields", token: token, wantCode: http.StatusBadRequest,
			body:     submitBody(t, map[string]string{"employed": "Yes"}),
			wantData: marchallObj(t, map[string]string{"name": "name is required", "company": "company is required"}),
		},
		{
			name: `Selected "Others" requires the paired free text`, token: token, wantCode: http.StatusBadRequest,
			body: submitBody(t, map[string]interface{}{
				"name":     "Hero Alum",
				"employed": "No",
				"skills":   []string{"Programming", "Others"},
			}),
			wantData: marchallObj(t, map[string]string{"skills (Others)": "skills (Others) is required"}),
		},
		{
			name: "Invalid body", token: token, wantCode: http.StatusBadRequest,
			body:     []byte("not json"),
			wantData: marchallObj(t, httpErr{Error: "invalid request body"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/submissions/survey"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Accepted", func(t *testing.T) {
		// stage a draft to prove acceptance drops it
		req, rec := newAuthRequest(http.MethodPut, "/v1/forms/survey/answers", token, marchallObj(t, validAnswers))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}

		req, rec = newAuthRequest(http.MethodPost, "/v1/submissions/survey", token, submitBody(t, validAnswers))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		var resp echoapi.SubmitResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if !resp.Success || resp.Submission.ID == "" {
			t.Errorf("failed! resp = %+v", resp)
		}
		if resp.Submission.SubjectID != alumni.ID {
			t.Errorf("failed! SubjectID = %q; want %q", resp.Submission.SubjectID, alumni.ID)
		}
		if resp.Submission.Response["name"].Scalar != "Hero Alum" {
			t.Errorf("failed! Response = %+v", resp.Submission.Response)
		}

		// the subject's account is flagged
		refreshed, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: alumni.ID})
		if err != nil {
			t.Fatalf("GetUser() failed: %v", err)
		}
		if !refreshed.HasSubmittedSurvey {
			t.Error("failed! HasSubmittedSurvey = false")
		}

		// the draft is gone
		if cached := answerStore.Load(context.Background(), schema.KindSurvey, alumni.ID); len(cached) != 0 {
			t.Errorf("failed! cached answers = %+v; want empty", cached)
		}
	})

	t.Run("Draft used when the body carries no response", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/forms/survey/answers", token, marchallObj(t, validAnswers))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}

		req, rec = newAuthRequest(http.MethodPost, "/v1/submissions/survey", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		var resp echoapi.SubmitResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if resp.Submission.Response["company"].Scalar != "Acme Corp" {
			t.Errorf("failed! Response = %+v", resp.Submission.Response)
		}
	})
}

func Test_submissionApi_createFeedback(t *testing.T) {
	app := setup(t)
	seedFeedbackSchema(t)

	alumni := testutil.CreateUser(t, usrRepo, "Hero", "Alum", "hero@test.ph", "", user.RoleAlumni, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "Root", "admin@test.ph", "", user.RoleAdmin, true)
	adminToken := getToken(t, admin)

	body := func(alumniID string, consented bool) []byte {
		return marchallObj(t, echoapi.SubmitRequest{
			Response:  marchallObj(t, map[string]string{"relevance": "Very relevant."}),
			AlumniID:  alumniID,
			Consented: consented,
		})
	}

	tests := []httpTest{
		{
			name: "Alumni required", token: adminToken, wantCode: http.StatusBadRequest,
			body:     body("", true),
			wantData: marchallObj(t, map[string]string{"alumni_id": "this field is required"}),
		},
		{
			name: "Consent required", token: adminToken, wantCode: http.StatusBadRequest,
			body:     body(alumni.ID, false),
			wantData: marchallObj(t, map[string]string{"consented": "data privacy consent is required"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/submissions/feedback"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Accepted for the interviewed alumni", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/submissions/feedback", adminToken, body(alumni.ID, true))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		var resp echoapi.SubmitResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if resp.Submission.SubjectID != alumni.ID {
			t.Errorf("failed! SubjectID = %q; want %q", resp.Submission.SubjectID, alumni.ID)
		}

		// feedback never flags the survey marker
		refreshed, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: alumni.ID})
		if err != nil {
			t.Fatalf("GetUser() failed: %v", err)
		}
		if refreshed.HasSubmittedSurvey {
			t.Error("failed! HasSubmittedSurvey = true")
		}
	})
}

func Test_submissionApi_query(t *testing.T) {
	app := setup(t)
	seedSurveySchema(t)

	alumni := testutil.CreateUser(t, usrRepo, "Hero", "Alum", "hero@test.ph", "", user.RoleAlumni, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "Root", "admin@test.ph", "", user.RoleAdmin, true)
	token := getToken(t, alumni)

	t.Run("Own submission absent until submitted", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}
		req, rec := newAuthRequest(http.MethodGet, "/v1/submissions/survey/mine", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	answers := submitBody(t, map[string]string{"name": "Hero Alum", "employed": "No"})
	req, rec := newAuthRequest(http.MethodPost, "/v1/submissions/survey", token, answers)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	t.Run("Admin required for the listing", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})}
		req, rec := newAuthRequest(http.MethodGet, "/v1/submissions/survey", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("Listing and own retrieval", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/submissions/survey", getToken(t, admin))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var subs []submission.Submission
		if err := json.Unmarshal(rec.Body.Bytes(), &subs); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if len(subs) != 1 || subs[0].SubjectID != alumni.ID {
			t.Fatalf("failed! subs = %+v", subs)
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/submissions/survey/mine", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var mine submission.Submission
		if err := json.Unmarshal(rec.Body.Bytes(), &mine); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if mine.SubjectID != alumni.ID {
			t.Errorf("failed! SubjectID = %q; want %q", mine.SubjectID, alumni.ID)
		}
	})
}

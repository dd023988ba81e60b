package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/jaymarkubaran15-svg/memotrace/apps/api/echo"
	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/event"
	"github.com/jaymarkubaran15-svg/memotrace/core/notification"
	"github.com/jaymarkubaran15-svg/memotrace/core/post"
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
	"github.com/jaymarkubaran15-svg/memotrace/core/submission"
	"github.com/jaymarkubaran15-svg/memotrace/core/user"
	emailsvc "github.com/jaymarkubaran15-svg/memotrace/services/email"
	inmemcache "github.com/jaymarkubaran15-svg/memotrace/storage/cache/inmem"
	inmemdb "github.com/jaymarkubaran15-svg/memotrace/storage/database/inmem"
)

var (
	conf *core.Config

	usrRepo    user.Repository
	schemaRepo schema.Repository
	subRepo    submission.Repository
	postRepo   post.Repository
	eventRepo  event.Repository
	notifRepo  notification.Repository

	answerStore *inmemcache.Store

	initValidatorsOnce sync.Once

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func testConfig() *core.Config {
	return &core.Config{
		TestMode:             true,
		Env:                  "TEST",
		Build:                "test",
		WorkDir:              core.Getwd(),
		AppName:              "MemoTrace",
		SecretKey:            "test-secret-key",
		FrontendBaseURL:      "http://localhost:3000",
		DefaultFromEmailAddr: "noreply@test.ph",
		PasswordResetTimeout: 15 * time.Minute,
		Server: core.ServerConfig{
			JWTExpirationDelta:        1 * time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

func setup(t *testing.T) echoapi.Server {
	t.Helper()

	conf = testConfig()

	// set up DB & repos
	db := inmemdb.NewDB()
	usrRepo = inmemdb.NewUserRepository(db)
	schemaRepo = inmemdb.NewSchemaRepository(db)
	subRepo = inmemdb.NewSubmissionRepository(db)
	postRepo = inmemdb.NewPostRepository(db)
	eventRepo = inmemdb.NewEventRepository(db)
	notifRepo = inmemdb.NewNotificationRepository(db)
	answerStore = inmemcache.NewStore()

	// set up services
	logger := testLogger{}
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewServiceMock(nil, usrRepo, mailSvc, conf)
	schemaSvc := schema.NewService(nil, schemaRepo, logger)
	subSvc := submission.NewService(nil, subRepo, usrSvc, logger)
	notifSvc := notification.NewService(nil, notifRepo)
	postSvc := post.NewService(nil, postRepo, notifSvc, logger)
	eventSvc := event.NewService(nil, eventRepo, stubGeocoder{}, stubFiles{}, notifSvc, logger)

	validate := validator.New()
	translator := newTranslator()
	initValidatorsOnce.Do(func() {
		core.ParseEmailTemplates(conf, logger)
		user.LoadCommonPasswords(conf, logger)
	})
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// set up server
	return echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:            conf,
			Logger:          logger,
			UserSvc:         usrSvc,
			SchemaSvc:       schemaSvc,
			SubmissionSvc:   subSvc,
			PostSvc:         postSvc,
			EventSvc:        eventSvc,
			NotificationSvc: notifSvc,
			AnswerStore:     answerStore,
			Validate:        validate,
			Translator:      translator,
			DisableReqLogs:  true,
		},
	)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}
func (testLogger) Fatal(msg string, args ...interface{}) {}

type stubGeocoder struct{}

func (stubGeocoder) Search(_ context.Context, query string) ([]event.Place, error) {
	return []event.Place{{Name: query + " City Hall", Latitude: 8.48, Longitude: 124.65}}, nil
}

type stubFiles struct{}

func (stubFiles) Save(_ context.Context, name string, _ io.Reader) (string, error) {
	return "stored-" + name, nil
}
func (stubFiles) Remove(_ context.Context, _ string) error { return nil }

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	claims := echoapi.GetUserClaims(usr, conf)
	token, err := echoapi.GenerateToken(claims, conf)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

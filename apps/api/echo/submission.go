package echoapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/form"
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
	"github.com/jaymarkubaran15-svg/memotrace/core/submission"
	"github.com/jaymarkubaran15-svg/memotrace/core/user"
)

type submissionApi struct {
	schemaSvc schema.ServiceInterface
	svc       submission.ServiceInterface
	store     form.AnswerStore
	userSvc   user.ServiceInterface
}

func registerSubmissionAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	schemaSvc schema.ServiceInterface,
	svc submission.ServiceInterface,
	store form.AnswerStore,
	userSvc user.ServiceInterface,
) {
	api := submissionApi{
		schemaSvc: schemaSvc,
		svc:       svc,
		store:     store,
		userSvc:   userSvc,
	}

	sg := g.Group("/submissions/:kind", jwt)
	sg.POST("", api.create)
	sg.GET("", api.query, adminMiddleware())
	sg.GET("/mine", api.retrieveOwn)
}

func (api *submissionApi) create(ctx echo.Context) error {
	kind, claims, err := formParams(ctx)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading request body")
	}
	var data SubmitRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &data); err != nil {
			return core.NewValidationError(errors.New("invalid request body"))
		}
	}

	// surveys are always submitted for the caller; feedback is an admin
	// interviewing an alumni identified in the body
	subjectID := claims.Subject
	consented := true
	if kind == schema.KindFeedback {
		subjectID = data.AlumniID
		consented = data.Consented
		if subjectID == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "alumni_id", Error: "this field is required"})
		}
	}

	answers := form.DecodeAnswers(data.Response)
	if len(answers) == 0 {
		// fall back to the crash-resume cache when the client submits
		// without a response payload
		answers = api.store.Load(ctx.Request().Context(), kind, claims.Subject)
	}

	doc := api.schemaSvc.Get(ctx.Request().Context(), kind)
	sub, err := api.svc.Submit(ctx.Request().Context(), kind, doc, answers, subjectID, consented)
	if err != nil {
		if errors.Cause(err) == submission.ErrConsentRequired {
			return core.NewValidationError(nil, core.FieldError{Field: "consented", Error: err.Error()})
		}
		return errors.Wrap(err, "submitting answers")
	}

	// submitted answers are authoritative; drop the cached draft
	if err := api.store.Clear(ctx.Request().Context(), kind, claims.Subject); err != nil {
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "clearing answer cache"))
	}

	return ctx.JSON(http.StatusCreated, SubmitResponse{Success: true, Submission: sub})
}

func (api *submissionApi) query(ctx echo.Context) error {
	kind, err := schema.ParseKind(ctx.Param("kind"))
	if err != nil {
		return errHttpNotFound
	}

	subs, err := api.svc.Query(ctx.Request().Context(), kind)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	if subs == nil {
		subs = []submission.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *submissionApi) retrieveOwn(ctx echo.Context) error {
	kind, claims, err := formParams(ctx)
	if err != nil {
		return err
	}

	sub, err := api.svc.GetForSubject(ctx.Request().Context(), kind, claims.Subject)
	if err != nil {
		if errors.Cause(err) == submission.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}

type (
	SubmitRequest struct {
		Response  json.RawMessage `json:"response"`
		AlumniID  string          `json:"alumni_id"`
		Consented bool            `json:"consented"`
	}

	SubmitResponse struct {
		Success    bool                  `json:"success"`
		Submission submission.Submission `json:"submission"`
	}
)

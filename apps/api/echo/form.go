package echoapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/jaymarkubaran15-svg/memotrace/core/form"
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
)

type formApi struct {
	schemaSvc schema.ServiceInterface
	store     form.AnswerStore
}

func registerFormAPI(g *echo.Group, jwt echo.MiddlewareFunc, schemaSvc schema.ServiceInterface, store form.AnswerStore) {
	api := formApi{schemaSvc: schemaSvc, store: store}

	fg := g.Group("/forms/:kind", jwt)
	fg.GET("", api.retrieve)
	fg.GET("/answers", api.retrieveAnswers)
	fg.PUT("/answers", api.saveAnswers)
	fg.DELETE("/answers", api.clearAnswers)
}

func (api *formApi) retrieve(ctx echo.Context) error {
	kind, claims, err := formParams(ctx)
	if err != nil {
		return err
	}

	doc := api.schemaSvc.Get(ctx.Request().Context(), kind)
	answers := api.store.Load(ctx.Request().Context(), kind, claims.Subject)

	sections := form.Render(doc, answers)
	views := make([]renderedSectionView, 0, len(sections))
	for _, sec := range sections {
		view := renderedSectionView{Title: sec.Title, Fields: []renderedFieldView{}}
		for _, f := range sec.Fields {
			view.Fields = append(view.Fields, renderedFieldView{
				Number:   f.Number,
				Key:      f.Field.Key,
				Label:    f.Field.Label,
				Type:     f.Field.Type.String(),
				Required: f.Field.Required,
				Options:  f.Field.Options,
				Answer:   f.Answer,
			})
		}
		views = append(views, view)
	}

	return ctx.JSON(http.StatusOK, FormResponse{
		Success:  true,
		Sections: views,
		Progress: form.Progress(doc, answers),
	})
}

func (api *formApi) retrieveAnswers(ctx echo.Context) error {
	kind, claims, err := formParams(ctx)
	if err != nil {
		return err
	}

	answers := api.store.Load(ctx.Request().Context(), kind, claims.Subject)
	return ctx.JSON(http.StatusOK, AnswersResponse{Success: true, Answers: answers})
}

func (api *formApi) saveAnswers(ctx echo.Context) error {
	kind, claims, err := formParams(ctx)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading request body")
	}
	answers := form.DecodeAnswers(body)

	if err := api.store.Save(ctx.Request().Context(), kind, claims.Subject, answers); err != nil {
		return errors.Wrap(err, "saving answers")
	}
	return ctx.JSON(http.StatusOK, AnswersResponse{Success: true, Answers: answers})
}

func (api *formApi) clearAnswers(ctx echo.Context) error {
	kind, claims, err := formParams(ctx)
	if err != nil {
		return err
	}

	if err := api.store.Clear(ctx.Request().Context(), kind, claims.Subject); err != nil {
		return errors.Wrap(err, "clearing answers")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func formParams(ctx echo.Context) (schema.Kind, Claims, error) {
	kind, err := schema.ParseKind(ctx.Param("kind"))
	if err != nil {
		return "", Claims{}, errHttpNotFound
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", Claims{}, errors.Wrap(err, "getting context claims")
	}
	return kind, claims, nil
}

type (
	renderedFieldView struct {
		Number   int         `json:"number"`
		Key      string      `json:"key"`
		Label    string      `json:"label"`
		Type     string      `json:"type"`
		Required bool        `json:"required"`
		Options  []string    `json:"options,omitempty"`
		Answer   form.Answer `json:"answer"`
	}

	renderedSectionView struct {
		Title  string              `json:"title"`
		Fields []renderedFieldView `json:"fields"`
	}

	FormResponse struct {
		Success  bool                  `json:"success"`
		Sections []renderedSectionView `json:"sections"`
		Progress float64               `json:"progress"`
	}

	AnswersResponse struct {
		Success bool           `json:"success"`
		Answers form.AnswerMap `json:"answers"`
	}
)

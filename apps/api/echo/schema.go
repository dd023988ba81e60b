package echoapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
)

type schemaApi struct {
	svc schema.ServiceInterface
}

func registerSchemaAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc schema.ServiceInterface) {
	api := schemaApi{svc: svc}

	sg := g.Group("/schemas/:kind", jwt)
	sg.GET("", api.retrieve)
	sg.POST("", api.save, adminMiddleware())
}

func (api *schemaApi) retrieve(ctx echo.Context) error {
	kind, err := schema.ParseKind(ctx.Param("kind"))
	if err != nil {
		return errHttpNotFound
	}

	doc := api.svc.Get(ctx.Request().Context(), kind)
	data, err := schema.EncodeDocument(kind, doc)
	if err != nil {
		return errors.Wrap(err, "encoding document")
	}
	return ctx.JSON(http.StatusOK, SchemaResponse{Success: true, Schema: data})
}

func (api *schemaApi) save(ctx echo.Context) error {
	kind, err := schema.ParseKind(ctx.Param("kind"))
	if err != nil {
		return errHttpNotFound
	}

	// documents marshal kind-aware (fields vs questions), so decode the raw
	// body through the codec instead of echo's binder
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading request body")
	}
	doc, err := schema.DecodeDocument(kind, body)
	if err != nil {
		return core.NewValidationError(errors.New("invalid schema document"))
	}

	saved, err := api.svc.Save(ctx.Request().Context(), kind, doc)
	if err != nil {
		return errors.Wrap(err, "saving schema")
	}
	data, err := schema.EncodeDocument(kind, saved)
	if err != nil {
		return errors.Wrap(err, "encoding document")
	}
	return ctx.JSON(http.StatusOK, SchemaResponse{Success: true, Schema: data})
}

type SchemaResponse struct {
	Success bool            `json:"success"`
	Schema  json.RawMessage `json:"schema"`
}

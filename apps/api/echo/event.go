package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/event"
	"github.com/jaymarkubaran15-svg/memotrace/core/user"
)

type eventApi struct {
	svc      event.ServiceInterface
	userSvc  user.ServiceInterface
	validate *validator.Validate
}

func registerEventAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc event.ServiceInterface,
	userSvc user.ServiceInterface,
	validate *validator.Validate,
) {
	api := eventApi{svc: svc, userSvc: userSvc, validate: validate}

	eg := g.Group("/events", jwt)
	eg.GET("", api.query)
	eg.POST("", api.create)
	eg.GET("/locations", api.searchLocations)
	eg.POST("/images", api.uploadImage)
	eg.GET("/:id", api.retrieve)
	eg.DELETE("/:id", api.destroy)
}

func (api *eventApi) create(ctx echo.Context) error {
	var data event.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	ev, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, ev)
}

func (api *eventApi) query(ctx echo.Context) error {
	events, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	if events == nil {
		events = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) retrieve(ctx echo.Context) error {
	ev, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == event.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding event by ID")
	}
	return ctx.JSON(http.StatusOK, ev)
}

func (api *eventApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), claims.Subject, claims.IsAdmin); err != nil {
		switch errors.Cause(err) {
		case event.ErrNotFound:
			return errHttpNotFound
		case event.ErrForbidden:
			return errHttpForbidden
		}
		return errors.Wrap(err, "deleting event")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// searchLocations proxies place queries to the geocoding boundary. Provider
// failures are reported as a notice rather than an error so the client can
// fall back to free-text entry.
func (api *eventApi) searchLocations(ctx echo.Context) error {
	query := core.CleanString(ctx.QueryParam("q"))
	if query == "" {
		return ctx.JSON(http.StatusOK, LocationsResponse{Success: true, Places: []event.Place{}})
	}

	places, err := api.svc.SearchLocations(ctx.Request().Context(), query)
	if err != nil {
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "searching locations"))
		return ctx.JSON(http.StatusOK, LocationsResponse{
			Success: false,
			Notice:  "Location search is unavailable right now.",
			Places:  []event.Place{},
		})
	}
	if places == nil {
		places = []event.Place{}
	}
	return ctx.JSON(http.StatusOK, LocationsResponse{Success: true, Places: places})
}

func (api *eventApi) uploadImage(ctx echo.Context) error {
	fh, err := ctx.FormFile("image")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "image", Error: "this field is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer f.Close()

	ref, err := api.svc.StoreImage(ctx.Request().Context(), fh.Filename, f)
	if err != nil {
		return errors.Wrap(err, "storing image")
	}
	return ctx.JSON(http.StatusCreated, UploadResponse{Success: true, Ref: ref})
}

type (
	LocationsResponse struct {
		Success bool          `json:"success"`
		Notice  string        `json:"notice,omitempty"`
		Places  []event.Place `json:"places"`
	}

	UploadResponse struct {
		Success bool   `json:"success"`
		Ref     string `json:"ref"`
	}
)

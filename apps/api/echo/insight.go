package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/rambam/core/insight"
)

type (
	insightApi struct {
		svc      *insight.Service
		validate *validator.Validate
	}

	InsightQuery struct {
		Treatise string `query:"treatise" validate:"required,slug"`
	}

	LatestQuery struct {
		Type string `query:"type" validate:"omitempty,oneof=dvar_torah daily_insight"`
	}
)

func registerInsightAPI(g *echo.Group, deps Deps) {
	api := &insightApi{svc: deps.InsightSvc, validate: deps.Validate}

	ig := g.Group("/insights")
	ig.GET("", api.query)
	ig.GET("/latest", api.latest)
	ig.GET("/:id", api.retrieve)
}

func (api *insightApi) query(ctx echo.Context) error {
	q := InsightQuery{Treatise: ctx.QueryParam("treatise")}
	if err := api.validate.Struct(q); err != nil {
		return err
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	articles, err := api.svc.ForTreatise(ctx.Request().Context(), q.Treatise, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying insights")
	}
	if articles == nil {
		articles = []insight.Article{}
	}
	return ctx.JSON(http.StatusOK, articles)
}

func (api *insightApi) latest(ctx echo.Context) error {
	q := LatestQuery{Type: ctx.QueryParam("type")}
	if err := api.validate.Struct(q); err != nil {
		return err
	}
	a, err := api.svc.Latest(ctx.Request().Context(), q.Type)
	if err != nil {
		return errors.Wrap(err, "finding latest insight")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *insightApi) retrieve(ctx echo.Context) error {
	a, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "retrieving insight")
	}
	return ctx.JSON(http.StatusOK, a)
}

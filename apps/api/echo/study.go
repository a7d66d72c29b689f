package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/rambam/core/insight"
	"github.com/trezcool/rambam/core/study"
	"github.com/trezcool/rambam/core/text"
)

type studyApi struct {
	svc        *study.Service
	textSvc    *text.Service
	insightSvc *insight.Service
	validate   *validator.Validate
}

func registerStudyAPI(g *echo.Group, deps Deps) {
	api := &studyApi{
		svc:        deps.StudySvc,
		textSvc:    deps.TextSvc,
		insightSvc: deps.InsightSvc,
		validate:   deps.Validate,
	}

	sg := g.Group("/study")
	sg.GET("/today", api.today)
	sg.GET("/today/texts", api.todayTexts)
}

// day resolves the ?date query, defaulting to the current day.
func (api *studyApi) day(ctx echo.Context) (study.CycleState, error) {
	var q DateQuery
	date, ok, err := q.Bind(ctx, api.validate)
	if err != nil {
		return study.CycleState{}, err
	}
	if !ok {
		return api.svc.Today(), nil
	}
	return api.svc.DailyStudy(date), nil
}

func (api *studyApi) dailyStudy(ctx echo.Context, cs study.CycleState) (dailyStudyResponse, error) {
	insights, err := api.insightSvc.ForDay(ctx.Request().Context(), cs)
	if err != nil {
		return dailyStudyResponse{}, errors.Wrap(err, "finding day insights")
	}
	return newDailyStudyResponse(cs, api.svc.TotalChapters(), insights), nil
}

func (api *studyApi) today(ctx echo.Context) error {
	cs, err := api.day(ctx)
	if err != nil {
		return err
	}
	resp, err := api.dailyStudy(ctx, cs)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *studyApi) todayTexts(ctx echo.Context) error {
	cs, err := api.day(ctx)
	if err != nil {
		return err
	}
	resp, err := api.dailyStudy(ctx, cs)
	if err != nil {
		return err
	}

	readings, err := api.textSvc.ReadDay(ctx.Request().Context(), cs)
	if err != nil {
		return errors.Wrap(err, "reading day texts")
	}
	out := dailyTextsResponse{dailyStudyResponse: resp, Readings: make([]readingResponse, 0, len(readings))}
	for _, r := range readings {
		out.Readings = append(out.Readings, newReadingResponse(r))
	}
	return ctx.JSON(http.StatusOK, out)
}

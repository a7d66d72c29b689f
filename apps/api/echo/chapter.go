package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/rambam/core"
	"github.com/trezcool/rambam/core/insight"
	"github.com/trezcool/rambam/core/text"
)

type chapterApi struct {
	textSvc    *text.Service
	insightSvc *insight.Service
}

func registerChapterAPI(g *echo.Group, deps Deps) {
	api := &chapterApi{textSvc: deps.TextSvc, insightSvc: deps.InsightSvc}

	g.GET("/chapters/:treatise/:chapter", api.retrieve)
}

func (api *chapterApi) retrieve(ctx echo.Context) error {
	treatise := ctx.Param("treatise")
	chapter, err := strconv.Atoi(ctx.Param("chapter"))
	if err != nil {
		return core.NewValidationError(
			errors.Wrap(err, "parsing chapter"),
			core.FieldError{Field: "chapter", Error: "chapter must be a number"},
		)
	}

	// locate first so bad input fails before any fetch
	if _, err = api.textSvc.Locate(treatise, chapter); err != nil {
		return err
	}
	reading, err := api.textSvc.Read(ctx.Request().Context(), treatise, chapter)
	if err != nil {
		return errors.Wrap(err, "reading chapter")
	}
	articles, err := api.insightSvc.ForChapter(ctx.Request().Context(), treatise, chapter)
	if err != nil {
		return errors.Wrap(err, "finding chapter insights")
	}

	return ctx.JSON(http.StatusOK, chapterResponse{
		readingResponse: newReadingResponse(reading),
		Insights:        newInsights(articles),
	})
}

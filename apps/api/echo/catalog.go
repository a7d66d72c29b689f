package echoapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/rambam/core/curriculum"
	"github.com/trezcool/rambam/core/study"
	"github.com/trezcool/rambam/core/text"
)

const (
	maxSuggestions   = 3
	suggestionCutoff = 0.6
)

type catalogApi struct {
	svc     *study.Service
	textSvc *text.Service
}

func registerCatalogAPI(g *echo.Group, deps Deps) {
	api := &catalogApi{svc: deps.StudySvc, textSvc: deps.TextSvc}

	cg := g.Group("/catalog")
	cg.GET("", api.catalog)
	cg.GET("/treatises/:id", api.treatise)
	cg.GET("/treatises/:id/index", api.treatiseIndex)
}

func (api *catalogApi) catalog(ctx echo.Context) error {
	cat := api.svc.Catalog()
	divisions := cat.Divisions()
	resp := catalogResponse{
		TotalChapters:  cat.ChapterCount(),
		CycleLength:    api.svc.Scheduler().CycleLength(),
		ChaptersPerDay: api.svc.Scheduler().ChaptersPerDay(),
		Divisions:      make([]divisionResponse, 0, len(divisions)),
	}
	for _, div := range divisions {
		resp.Divisions = append(resp.Divisions, newDivisionResponse(div))
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *catalogApi) treatise(ctx echo.Context) error {
	id := strings.ToLower(strings.TrimSpace(ctx.Param("id")))
	div, sd, ok := api.svc.Catalog().FindSubDivision(id)
	if !ok {
		return api.treatiseNotFound(id)
	}
	return ctx.JSON(http.StatusOK, newTreatiseResponse(div, sd))
}

func (api *catalogApi) treatiseIndex(ctx echo.Context) error {
	id := strings.ToLower(strings.TrimSpace(ctx.Param("id")))
	if _, _, ok := api.svc.Catalog().FindSubDivision(id); !ok {
		return api.treatiseNotFound(id)
	}
	idx, err := api.textSvc.Index(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "fetching treatise index")
	}
	return ctx.JSON(http.StatusOK, idx)
}

func (api *catalogApi) treatiseNotFound(id string) error {
	return echo.NewHTTPError(http.StatusNotFound, echo.Map{
		"error":       fmt.Sprintf("treatise %q not found", id),
		"suggestions": suggestTreatises(api.svc.Catalog(), id),
	})
}

// suggestTreatises returns the ids of the treatises whose id or name is closest to query.
func suggestTreatises(cat *curriculum.Catalog, query string) []string {
	type match struct {
		id    string
		score float64
	}

	query = strings.ToLower(query)
	matches := make([]match, 0)
	for _, e := range cat.SubDivisions() {
		score := similarity(query, e.SubDivision.ID)
		if s := similarity(query, strings.ToLower(e.SubDivision.Name)); s > score {
			score = s
		}
		if score >= suggestionCutoff {
			matches = append(matches, match{id: e.SubDivision.ID, score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	suggestions := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, m.id)
	}
	return suggestions
}

func similarity(a, b string) float64 {
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

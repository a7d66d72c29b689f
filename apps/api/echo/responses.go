package echoapi

import (
	"github.com/trezcool/rambam/core/curriculum"
	"github.com/trezcool/rambam/core/insight"
	"github.com/trezcool/rambam/core/study"
	"github.com/trezcool/rambam/core/text"
)

type (
	unitResponse struct {
		Index        int    `json:"index"`
		DivisionID   string `json:"division_id"`
		DivisionName string `json:"division_name"`
		TreatiseID   string `json:"treatise_id"`
		TreatiseName string `json:"treatise_name"`
		HeName       string `json:"he_name"`
		Chapter      int    `json:"chapter"`
		Ref          string `json:"ref"`
	}

	dailyStudyResponse struct {
		Date            string                     `json:"date"`
		Label           string                     `json:"label"`
		CycleNumber     int                        `json:"cycle_number"`
		CycleLength     int                        `json:"cycle_length"`
		Day             int                        `json:"day"` // 1-indexed
		DaysSinceEpoch  int                        `json:"days_since_epoch"`
		ChaptersPerDay  int                        `json:"chapters_per_day"`
		ProgressPercent int                        `json:"progress_percent"`
		TotalChapters   int                        `json:"total_chapters"`
		Chapters        []unitResponse             `json:"chapters"`
		Insights        map[string]insight.Insight `json:"insights"` // keyed by "treatise:start-end"
	}

	readingResponse struct {
		Unit         unitResponse   `json:"unit"`
		Prev         unitResponse   `json:"prev"`
		Next         unitResponse   `json:"next"`
		Ref          string         `json:"ref"`
		HeRef        string         `json:"he_ref"`
		SectionNames []string       `json:"section_names"`
		Segments     []text.Segment `json:"segments"`
	}

	dailyTextsResponse struct {
		dailyStudyResponse
		Readings []readingResponse `json:"readings"`
	}

	chapterResponse struct {
		readingResponse
		Insights []insight.Insight `json:"insights"`
	}

	treatiseResponse struct {
		curriculum.SubDivision
		DivisionID   string `json:"division_id"`
		DivisionName string `json:"division_name"`
	}

	divisionResponse struct {
		ID            string                   `json:"id"`
		Numeral       string                   `json:"numeral"`
		Name          string                   `json:"name"`
		HeName        string                   `json:"he_name"`
		Color         string                   `json:"color"`
		TreatiseCount int                      `json:"treatise_count"`
		TotalChapters int                      `json:"total_chapters"`
		Treatises     []curriculum.SubDivision `json:"treatises"`
	}

	catalogResponse struct {
		TotalChapters  int                `json:"total_chapters"`
		CycleLength    int                `json:"cycle_length"`
		ChaptersPerDay int                `json:"chapters_per_day"`
		Divisions      []divisionResponse `json:"divisions"`
	}
)

func newUnitResponse(u study.ChapterUnit) unitResponse {
	return unitResponse{
		Index:        u.Index,
		DivisionID:   u.Division.ID,
		DivisionName: u.Division.Name,
		TreatiseID:   u.SubDivision.ID,
		TreatiseName: u.SubDivision.Name,
		HeName:       u.SubDivision.HeName,
		Chapter:      u.Chapter,
		Ref:          u.String(),
	}
}

func newDailyStudyResponse(cs study.CycleState, totalChapters int, insights map[string]insight.Article) dailyStudyResponse {
	chapters := make([]unitResponse, 0, len(cs.Chapters))
	for _, u := range cs.Chapters {
		chapters = append(chapters, newUnitResponse(u))
	}
	shaped := make(map[string]insight.Insight, len(insights))
	for key, a := range insights {
		shaped[key] = a.Insight()
	}
	return dailyStudyResponse{
		Date:            study.FormatDate(cs.Date),
		Label:           study.Label(cs),
		CycleNumber:     cs.CycleNumber,
		CycleLength:     cs.CycleLength,
		Day:             cs.Day(),
		DaysSinceEpoch:  cs.DaysSinceEpoch,
		ChaptersPerDay:  cs.ChaptersPerDay,
		ProgressPercent: cs.ProgressPercent,
		TotalChapters:   totalChapters,
		Chapters:        chapters,
		Insights:        shaped,
	}
}

func newReadingResponse(r text.Reading) readingResponse {
	segments := r.Segments
	if segments == nil {
		segments = []text.Segment{}
	}
	return readingResponse{
		Unit:         newUnitResponse(r.Unit),
		Prev:         newUnitResponse(r.Prev),
		Next:         newUnitResponse(r.Next),
		Ref:          r.Chapter.Ref,
		HeRef:        r.Chapter.HeRef,
		SectionNames: r.Chapter.SectionNames,
		Segments:     segments,
	}
}

func newInsights(articles []insight.Article) []insight.Insight {
	insights := make([]insight.Insight, 0, len(articles))
	for _, a := range articles {
		insights = append(insights, a.Insight())
	}
	return insights
}

func newTreatiseResponse(div curriculum.Division, sd curriculum.SubDivision) treatiseResponse {
	return treatiseResponse{SubDivision: sd, DivisionID: div.ID, DivisionName: div.Name}
}

func newDivisionResponse(div curriculum.Division) divisionResponse {
	return divisionResponse{
		ID:            div.ID,
		Numeral:       div.Numeral,
		Name:          div.Name,
		HeName:        div.HeName,
		Color:         div.Color,
		TreatiseCount: div.SubDivisionCount(),
		TotalChapters: div.TotalChapters(),
		Treatises:     div.SubDivisions,
	}
}

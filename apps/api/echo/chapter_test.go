package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rambam/core/insight"
	"github.com/trezcool/rambam/storage/database/dbtest"
)

func Test_chapterApi_retrieve(t *testing.T) {
	app := setup(t)
	covering := dbtest.CreateArticle(t, app.repo, insight.Article{
		ContentType: insight.TypeDailyInsight, Title: "Honoring the Sabbath", Body: "<p>Sabbath 4-6</p>",
		Summary: "On honor and delight.", Status: insight.StatusPublished,
		TreatiseID: "sabbath", StartChapter: 4, EndChapter: 6,
	})
	dbtest.CreateArticle(t, app.repo, insight.Article{
		ContentType: insight.TypeDailyInsight, Title: "Elsewhere", Status: insight.StatusPublished,
		TreatiseID: "sabbath", StartChapter: 7, EndChapter: 9,
	})
	dbtest.CreateArticle(t, app.repo, insight.Article{
		ContentType: insight.TypeDailyInsight, Title: "Unpublished", Status: insight.StatusDraft,
		TreatiseID: "sabbath", StartChapter: 5, EndChapter: 5,
	})

	t.Run("reading with insights", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/v1/chapters/sabbath/5")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp chapterResponse
		decode(t, rec, &resp)
		assert.Equal(t, "sabbath.5", resp.Unit.Ref)
		assert.Equal(t, "sabbath.4", resp.Prev.Ref)
		assert.Equal(t, "sabbath.6", resp.Next.Ref)
		assert.Equal(t, "Mishneh Torah, Sabbath 5", resp.Ref)
		assert.Equal(t, []string{"Chapter", "Halakhah"}, resp.SectionNames)
		assert.Len(t, resp.Segments, 3)

		require.Len(t, resp.Insights, 1)
		assert.Equal(t, covering.ID, resp.Insights[0].ID)
		assert.Equal(t, "Daily Rambam", resp.Insights[0].Subtitle)
		assert.Equal(t, "Overview", resp.Insights[0].Sections[0].Heading)
	})

	t.Run("last chapter wraps to the first", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/v1/chapters/kings/12")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp chapterResponse
		decode(t, rec, &resp)
		assert.Equal(t, "foundations.1", resp.Next.Ref)
		assert.Equal(t, 999, resp.Unit.Index)
		assert.Empty(t, resp.Insights)
	})

	runHTTPTests(t, app, []httpTest{
		{
			name:     "chapter out of range",
			path:     "/v1/chapters/sabbath/31",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"chapter": "chapter must be between 1 and 30"}),
		},
		{
			name:     "chapter zero",
			path:     "/v1/chapters/sabbath/0",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"chapter": "chapter must be between 1 and 30"}),
		},
		{
			name:     "chapter not a number",
			path:     "/v1/chapters/sabbath/four",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"chapter": "chapter must be a number"}),
		},
		{
			name:     "unknown treatise",
			path:     "/v1/chapters/shabbos/1",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "unknown treatise"}),
		},
	})

	assert.Equal(t, 0, app.provider.Calls("Mishneh Torah, Sabbath", 31), "invalid chapters are never fetched")
}

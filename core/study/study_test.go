package study

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trezcool/rambam/core/curriculum"
)

var epoch = time.Date(2024, time.April, 23, 0, 0, 0, 0, time.UTC)

// testCatalog has 23 chapters: at 3 per day the cycle is 8 days and its last day is short.
func testCatalog(t *testing.T) *curriculum.Catalog {
	t.Helper()
	cat, err := curriculum.New([]curriculum.Division{
		{
			ID: "knowledge", Name: "Knowledge", Color: "#34495E",
			SubDivisions: []curriculum.SubDivision{
				{ID: "foundations", Name: "Foundations", Ref: "Work, Foundations", Chapters: 10},
				{ID: "dispositions", Name: "Dispositions", Ref: "Work, Dispositions", Chapters: 7},
			},
		},
		{
			ID: "love", Name: "Love", Color: "#9B2C2C",
			SubDivisions: []curriculum.SubDivision{
				{ID: "shema", Name: "Shema", Ref: "Work, Shema", Chapters: 4},
				{ID: "fringes", Name: "Fringes", Ref: "Work, Fringes", Chapters: 2},
			},
		},
	})
	require.NoError(t, err)
	return cat
}

func defaultCatalog(t *testing.T) *curriculum.Catalog {
	t.Helper()
	cat, err := curriculum.Default()
	require.NoError(t, err)
	return cat
}

func mustScheduler(t *testing.T, cat *curriculum.Catalog, perDay int) *Scheduler {
	t.Helper()
	s, err := NewScheduler(NewSequence(cat), Config{Epoch: epoch, StartingCycle: 44, ChaptersPerDay: perDay})
	require.NoError(t, err)
	return s
}

func unitIDs(units []ChapterUnit) []string {
	ids := make([]string, 0, len(units))
	for _, u := range units {
		ids = append(ids, u.String())
	}
	return ids
}

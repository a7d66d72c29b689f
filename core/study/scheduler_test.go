package study

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler_InvalidConfig(t *testing.T) {
	seq := NewSequence(testCatalog(t))

	tests := []struct {
		name string
		seq  *Sequence
		cfg  Config
		msg  string
	}{
		{name: "nil sequence", seq: nil, cfg: DefaultConfig(), msg: "empty chapter sequence"},
		{name: "empty sequence", seq: &Sequence{}, cfg: DefaultConfig(), msg: "empty chapter sequence"},
		{name: "zero rate", seq: seq, cfg: Config{Epoch: epoch, StartingCycle: 1}, msg: "got 0"},
		{name: "negative rate", seq: seq, cfg: Config{Epoch: epoch, ChaptersPerDay: -2}, msg: "got -2"},
		{name: "no epoch", seq: seq, cfg: Config{ChaptersPerDay: 3}, msg: "epoch date is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScheduler(tt.seq, tt.cfg)
			assert.Nil(t, s)
			if assert.Error(t, err) {
				assert.Equal(t, ErrInvalidConfig, errors.Cause(err))
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestScheduler_CycleLength(t *testing.T) {
	tests := []struct {
		name   string
		total  int
		perDay int
		want   int
	}{
		{name: "three a day", total: 23, perDay: 3, want: 8},
		{name: "one a day", total: 23, perDay: 1, want: 23},
		{name: "whole work in a day", total: 23, perDay: 23, want: 1},
		{name: "more than the work", total: 23, perDay: 50, want: 1},
		{name: "mishneh torah", total: 1000, perDay: 3, want: 334},
		{name: "mishneh torah one a day", total: 1000, perDay: 1, want: 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := testCatalog(t)
			if tt.total == 1000 {
				cat = defaultCatalog(t)
			}
			s := mustScheduler(t, cat, tt.perDay)
			assert.Equal(t, tt.want, s.CycleLength())
		})
	}
}

func TestScheduler_FirstDay(t *testing.T) {
	s := mustScheduler(t, testCatalog(t), 3)

	cs := s.At(epoch)
	assert.Equal(t, 0, cs.DaysSinceEpoch)
	assert.Equal(t, 0, cs.DayOfCycle)
	assert.Equal(t, 1, cs.Day())
	assert.Equal(t, 44, cs.CycleNumber)
	assert.Equal(t, 0, cs.ProgressPercent)
	assert.Equal(t, 8, cs.CycleLength)
	assert.Equal(t, 3, cs.ChaptersPerDay)
	assert.Equal(t, []string{"foundations.1", "foundations.2", "foundations.3"}, unitIDs(cs.Chapters))
	assert.Equal(t, "Foundations Ch. 1–3", Label(cs))
}

func TestScheduler_At(t *testing.T) {
	s := mustScheduler(t, testCatalog(t), 3)

	tests := []struct {
		name     string
		date     time.Time
		since    int
		day      int
		cycle    int
		progress int
		chapters []string
	}{
		{
			name: "day after epoch", date: epoch.AddDate(0, 0, 1),
			since: 1, day: 1, cycle: 44, progress: 13,
			chapters: []string{"foundations.4", "foundations.5", "foundations.6"},
		},
		{
			name: "crosses a sub-division", date: epoch.AddDate(0, 0, 3),
			since: 3, day: 3, cycle: 44, progress: 38,
			chapters: []string{"foundations.10", "dispositions.1", "dispositions.2"},
		},
		{
			name: "crosses a division", date: epoch.AddDate(0, 0, 5),
			since: 5, day: 5, cycle: 44, progress: 63,
			chapters: []string{"dispositions.6", "dispositions.7", "shema.1"},
		},
		{
			name: "short final day", date: epoch.AddDate(0, 0, 7),
			since: 7, day: 7, cycle: 44, progress: 88,
			chapters: []string{"fringes.1", "fringes.2"},
		},
		{
			name: "next cycle", date: epoch.AddDate(0, 0, 8),
			since: 8, day: 0, cycle: 45, progress: 0,
			chapters: []string{"foundations.1", "foundations.2", "foundations.3"},
		},
		{
			name: "day before epoch", date: epoch.AddDate(0, 0, -1),
			since: -1, day: 7, cycle: 43, progress: 88,
			chapters: []string{"fringes.1", "fringes.2"},
		},
		{
			name: "start of previous cycle", date: epoch.AddDate(0, 0, -8),
			since: -8, day: 0, cycle: 43, progress: 0,
			chapters: []string{"foundations.1", "foundations.2", "foundations.3"},
		},
		{
			name: "two cycles back", date: epoch.AddDate(0, 0, -9),
			since: -9, day: 7, cycle: 42, progress: 88,
			chapters: []string{"fringes.1", "fringes.2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := s.At(tt.date)
			assert.Equal(t, tt.since, cs.DaysSinceEpoch)
			assert.Equal(t, tt.day, cs.DayOfCycle)
			assert.Equal(t, tt.cycle, cs.CycleNumber)
			assert.Equal(t, tt.progress, cs.ProgressPercent)
			if diff := cmp.Diff(tt.chapters, unitIDs(cs.Chapters)); diff != "" {
				t.Errorf("chapters mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScheduler_CoversEveryChapterOncePerCycle(t *testing.T) {
	for _, perDay := range []int{1, 2, 3, 4, 5, 7, 10, 23, 40} {
		s := mustScheduler(t, testCatalog(t), perDay)
		var covered []string
		for d := 0; d < s.CycleLength(); d++ {
			cs := s.Day(d)
			require.NotEmpty(t, cs.Chapters, "rate %d day %d", perDay, d)
			if d < s.CycleLength()-1 {
				assert.Len(t, cs.Chapters, perDay, "rate %d day %d", perDay, d)
			}
			covered = append(covered, unitIDs(cs.Chapters)...)
		}
		assert.Equal(t, unitIDs(s.Sequence().Units()), covered, "rate %d", perDay)

		last := s.Day(s.CycleLength() - 1)
		want := 23 % perDay
		if want == 0 {
			want = perDay
		}
		if perDay > 23 {
			want = 23
		}
		assert.Len(t, last.Chapters, want, "rate %d final day", perDay)
	}
}

func TestScheduler_MishnehTorahCycle(t *testing.T) {
	s := mustScheduler(t, defaultCatalog(t), 3)

	first := s.At(epoch)
	assert.Equal(t, "Foundations of the Torah Ch. 1–3", Label(first))

	boundary := s.At(epoch.AddDate(0, 0, 3))
	assert.Equal(t, []string{"foundations.10", "dispositions.1", "dispositions.2"}, unitIDs(boundary.Chapters))
	assert.Equal(t, "Foundations of the Torah Ch. 10 · Human Dispositions Ch. 1–2", Label(boundary))

	last := s.At(epoch.AddDate(0, 0, 333))
	assert.Equal(t, 333, last.DayOfCycle)
	assert.Equal(t, 334, last.Day())
	assert.Equal(t, 100, last.ProgressPercent)
	assert.Equal(t, []string{"kings.12"}, unitIDs(last.Chapters))

	next := s.At(epoch.AddDate(0, 0, 334))
	assert.Equal(t, 45, next.CycleNumber)
	assert.Equal(t, 0, next.DayOfCycle)
	assert.Equal(t, unitIDs(first.Chapters), unitIDs(next.Chapters))
}

func TestScheduler_Periodic(t *testing.T) {
	s := mustScheduler(t, testCatalog(t), 3)
	l := s.CycleLength()

	for d := -40; d <= 40; d++ {
		a := s.At(epoch.AddDate(0, 0, d))
		b := s.At(epoch.AddDate(0, 0, d+l))
		assert.Equal(t, a.DayOfCycle, b.DayOfCycle, "offset %d", d)
		assert.Equal(t, a.CycleNumber+1, b.CycleNumber, "offset %d", d)
		assert.Equal(t, unitIDs(a.Chapters), unitIDs(b.Chapters), "offset %d", d)
	}
}

func TestScheduler_PreEpochStaysInRange(t *testing.T) {
	s := mustScheduler(t, defaultCatalog(t), 3)

	for d := -1; d >= -2000; d-- {
		cs := s.At(epoch.AddDate(0, 0, d))
		require.GreaterOrEqual(t, cs.DayOfCycle, 0, "offset %d", d)
		require.Less(t, cs.DayOfCycle, cs.CycleLength, "offset %d", d)
		require.LessOrEqual(t, cs.CycleNumber, 43, "offset %d", d)
		require.NotEmpty(t, cs.Chapters, "offset %d", d)
	}
}

func TestScheduler_FarDates(t *testing.T) {
	s := mustScheduler(t, defaultCatalog(t), 3)

	for _, date := range []time.Time{
		time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1138, time.March, 30, 0, 0, 0, 0, time.UTC),
		time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC),
	} {
		cs := s.At(date)
		assert.GreaterOrEqual(t, cs.DayOfCycle, 0, FormatDate(date))
		assert.Less(t, cs.DayOfCycle, 334, FormatDate(date))
		assert.NotEmpty(t, cs.Chapters, FormatDate(date))
	}
}

func TestScheduler_UsesCalendarDateOnly(t *testing.T) {
	s := mustScheduler(t, testCatalog(t), 3)

	ny := time.FixedZone("UTC-5", -5*60*60)
	kiritimati := time.FixedZone("UTC+14", 14*60*60)

	for _, date := range []time.Time{
		time.Date(2024, time.April, 23, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.April, 23, 23, 59, 59, 0, time.UTC),
		time.Date(2024, time.April, 23, 23, 30, 0, 0, ny),
		time.Date(2024, time.April, 23, 0, 30, 0, 0, kiritimati),
	} {
		cs := s.At(date)
		assert.Equal(t, 0, cs.DaysSinceEpoch, date.String())
		assert.Equal(t, "2024-04-23", FormatDate(cs.Date), date.String())
	}

	// an epoch given in another zone keeps its own calendar date
	s2, err := NewScheduler(s.Sequence(), Config{
		Epoch:          time.Date(2024, time.April, 23, 22, 0, 0, 0, ny),
		StartingCycle:  44,
		ChaptersPerDay: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, s2.At(epoch).DaysSinceEpoch)
}

func TestScheduler_Idempotent(t *testing.T) {
	s := mustScheduler(t, testCatalog(t), 3)
	date := epoch.AddDate(0, 0, 123)

	want := s.At(date)
	for i := 0; i < 5; i++ {
		got := s.At(date)
		assert.Equal(t, want.DayOfCycle, got.DayOfCycle)
		assert.Equal(t, want.CycleNumber, got.CycleNumber)
		assert.Equal(t, unitIDs(want.Chapters), unitIDs(got.Chapters))
	}
}

func TestScheduler_ConcurrentUse(t *testing.T) {
	s := mustScheduler(t, defaultCatalog(t), 3)
	want := Label(s.At(epoch.AddDate(0, 0, 3)))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, want, Label(s.At(epoch.AddDate(0, 0, 3))))
			}
		}()
	}
	wg.Wait()
}

func TestScheduler_Today(t *testing.T) {
	s := mustScheduler(t, testCatalog(t), 3)
	s.now = func() time.Time { return time.Date(2024, time.April, 26, 18, 0, 0, 0, time.Local) }

	cs := s.Today()
	assert.Equal(t, 3, cs.DayOfCycle)
	assert.Equal(t, "Foundations Ch. 10 · Dispositions Ch. 1–2", Label(cs))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		value string
		want  string
		ok    bool
	}{
		{value: "2024-04-23", want: "2024-04-23", ok: true},
		{value: "2024-02-29", want: "2024-02-29", ok: true},
		{value: "2024-02-30", ok: false},
		{value: "2023-02-29", ok: false},
		{value: "2024-4-23", ok: false},
		{value: "23/04/2024", ok: false},
		{value: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseDate(tt.value)
			if !tt.ok {
				if assert.Error(t, err) {
					assert.Equal(t, ErrInvalidDate, errors.Cause(err))
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatDate(got))
		})
	}
}

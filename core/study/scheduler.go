package study

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultChaptersPerDay is the traditional pace that completes the work in about a year.
	DefaultChaptersPerDay = 3

	dateLayout = "2006-01-02"
	secsPerDay = 24 * 60 * 60
)

// Config anchors the cycle. It is configuration, not runtime state.
type Config struct {
	Epoch          time.Time // day zero of cycle StartingCycle; only its calendar date is used
	StartingCycle  int
	ChaptersPerDay int
}

// DefaultConfig is the cycle 44 anchor used since April 2024.
func DefaultConfig() Config {
	return Config{
		Epoch:          time.Date(2024, time.April, 23, 0, 0, 0, 0, time.UTC),
		StartingCycle:  44,
		ChaptersPerDay: DefaultChaptersPerDay,
	}
}

// CycleState is the study assignment for one calendar date. It is recomputed on every query.
type CycleState struct {
	Date            time.Time // calendar date at UTC midnight
	DaysSinceEpoch  int
	CycleLength     int // distinct days in one full read-through
	DayOfCycle      int // 0-indexed
	CycleNumber     int
	ChaptersPerDay  int
	Chapters        []ChapterUnit
	ProgressPercent int
}

// Day is the 1-indexed day of the cycle, for display.
func (cs CycleState) Day() int { return cs.DayOfCycle + 1 }

// Scheduler maps calendar dates to contiguous slices of a Sequence.
// It holds no mutable state and is safe for concurrent use.
type Scheduler struct {
	seq           *Sequence
	epoch         time.Time
	startingCycle int
	perDay        int
	cycleLength   int
	now           func() time.Time
}

// NewScheduler validates cfg against seq. Any error here is a fatal configuration error.
func NewScheduler(seq *Sequence, cfg Config) (*Scheduler, error) {
	if seq == nil || seq.Len() == 0 {
		return nil, errors.Wrap(ErrInvalidConfig, "empty chapter sequence")
	}
	if cfg.ChaptersPerDay <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "chapters per day must be positive, got %d", cfg.ChaptersPerDay)
	}
	if cfg.Epoch.IsZero() {
		return nil, errors.Wrap(ErrInvalidConfig, "epoch date is required")
	}
	return &Scheduler{
		seq:           seq,
		epoch:         civilDate(cfg.Epoch),
		startingCycle: cfg.StartingCycle,
		perDay:        cfg.ChaptersPerDay,
		cycleLength:   (seq.Len() + cfg.ChaptersPerDay - 1) / cfg.ChaptersPerDay,
		now:           time.Now,
	}, nil
}

func (s *Scheduler) Epoch() time.Time    { return s.epoch }
func (s *Scheduler) CycleLength() int    { return s.cycleLength }
func (s *Scheduler) ChaptersPerDay() int { return s.perDay }
func (s *Scheduler) Sequence() *Sequence { return s.seq }

// At returns the assignment for the calendar date of date, read in date's own location.
// Dates before the epoch resolve to earlier cycles.
func (s *Scheduler) At(date time.Time) CycleState {
	day := civilDate(date)
	since := daysBetween(s.epoch, day)

	length := int64(s.cycleLength)
	dayOfCycle := ((since % length) + length) % length
	cycle := int64(s.startingCycle) + floorDiv(since, length)

	return CycleState{
		Date:            day,
		DaysSinceEpoch:  int(since),
		CycleLength:     s.cycleLength,
		DayOfCycle:      int(dayOfCycle),
		CycleNumber:     int(cycle),
		ChaptersPerDay:  s.perDay,
		Chapters:        s.seq.Slice(int(dayOfCycle)*s.perDay, s.perDay),
		ProgressPercent: int(math.Round(float64(dayOfCycle) / float64(length) * 100)),
	}
}

// Today returns the assignment for the current local calendar day.
func (s *Scheduler) Today() CycleState {
	return s.At(s.now())
}

// Day returns the assignment for the given 0-indexed day of the epoch's cycle.
func (s *Scheduler) Day(dayOfCycle int) CycleState {
	return s.At(s.epoch.AddDate(0, 0, dayOfCycle))
}

// ParseDate parses a YYYY-MM-DD calendar date. Impossible dates such as 2024-02-30 are rejected.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidDate, "%q is not a YYYY-MM-DD calendar date", value)
	}
	return t, nil
}

// FormatDate renders the calendar date of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return civilDate(t).Format(dateLayout)
}

// civilDate places the calendar date of t, as seen in t's location, at UTC midnight.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole days from a to b; both must be UTC midnights.
// It holds for any year time.Time can represent.
func daysBetween(a, b time.Time) int64 {
	return (b.Unix() - a.Unix()) / secsPerDay
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

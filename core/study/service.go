package study

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/rambam/core/curriculum"
)

// Service is the daily-study entry point: the catalog, its sequence and the scheduler, built once.
type Service struct {
	catalog   *curriculum.Catalog
	seq       *Sequence
	scheduler *Scheduler
}

// NewService flattens cat and validates cfg. Errors are fatal configuration errors.
func NewService(cat *curriculum.Catalog, cfg Config) (*Service, error) {
	if cat == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "no catalog")
	}
	seq := NewSequence(cat)
	sched, err := NewScheduler(seq, cfg)
	if err != nil {
		return nil, err
	}
	return &Service{catalog: cat, seq: seq, scheduler: sched}, nil
}

func (svc *Service) Catalog() *curriculum.Catalog { return svc.catalog }
func (svc *Service) Sequence() *Sequence          { return svc.seq }
func (svc *Service) Scheduler() *Scheduler        { return svc.scheduler }

// DailyStudy returns the assignment for date.
func (svc *Service) DailyStudy(date time.Time) CycleState {
	return svc.scheduler.At(date)
}

// Today returns the assignment for the current local calendar day.
func (svc *Service) Today() CycleState {
	return svc.scheduler.Today()
}

// TotalChapters is the length of the flattened sequence.
func (svc *Service) TotalChapters() int {
	return svc.seq.Len()
}

// Locate finds the unit for a sub-division chapter.
func (svc *Service) Locate(subDivisionID string, chapter int) (ChapterUnit, bool) {
	return svc.seq.Locate(subDivisionID, chapter)
}

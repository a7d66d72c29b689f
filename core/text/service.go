package text

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/rambam/core"
	"github.com/trezcool/rambam/core/curriculum"
	"github.com/trezcool/rambam/core/study"
)

// maxConcurrentFetches bounds the provider calls made for one day's portion.
const maxConcurrentFetches = 4

type (
	// Provider serves canonical chapter texts. Implementations must be safe for concurrent use.
	Provider interface {
		Chapter(ctx context.Context, ref string, chapter int) (Chapter, error)
		Index(ctx context.Context, ref string) (Index, error)
	}

	// Reading is a chapter ready for the reader, with its neighbours in the study sequence.
	Reading struct {
		Unit     study.ChapterUnit
		Prev     study.ChapterUnit
		Next     study.ChapterUnit
		Chapter  Chapter
		Segments []Segment
	}

	Service struct {
		provider Provider
		seq      *study.Sequence
	}
)

func NewService(provider Provider, seq *study.Sequence) *Service {
	return &Service{provider: provider, seq: seq}
}

// Locate resolves a treatise chapter. An unknown treatise is curriculum.ErrUnknownTreatise;
// a chapter outside 1..N is a core.ValidationError.
func (svc *Service) Locate(treatiseID string, chapter int) (study.ChapterUnit, error) {
	first, ok := svc.seq.Locate(treatiseID, 1)
	if !ok {
		return study.ChapterUnit{}, errors.Wrapf(curriculum.ErrUnknownTreatise, "%q", treatiseID)
	}
	unit, ok := svc.seq.Locate(treatiseID, chapter)
	if !ok {
		msg := fmt.Sprintf("chapter must be between 1 and %d", first.SubDivision.Chapters)
		return study.ChapterUnit{}, core.NewValidationError(
			errors.Errorf("%s has no chapter %d", first.SubDivision.Name, chapter),
			core.FieldError{Field: "chapter", Error: msg},
		)
	}
	return unit, nil
}

// Read fetches one chapter of a treatise.
func (svc *Service) Read(ctx context.Context, treatiseID string, chapter int) (Reading, error) {
	unit, err := svc.Locate(treatiseID, chapter)
	if err != nil {
		return Reading{}, err
	}
	return svc.read(ctx, unit)
}

// ReadDay fetches every chapter of a day's portion concurrently. Results keep the portion's order.
// The first failure cancels the outstanding fetches.
func (svc *Service) ReadDay(ctx context.Context, cs study.CycleState) ([]Reading, error) {
	readings := make([]Reading, len(cs.Chapters))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, unit := range cs.Chapters {
		i, unit := i, unit
		g.Go(func() error {
			r, err := svc.read(ctx, unit)
			if err != nil {
				return err
			}
			readings[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return readings, nil
}

// Index fetches the table of contents of a treatise.
func (svc *Service) Index(ctx context.Context, treatiseID string) (Index, error) {
	first, ok := svc.seq.Locate(treatiseID, 1)
	if !ok {
		return Index{}, errors.Wrapf(curriculum.ErrUnknownTreatise, "%q", treatiseID)
	}
	idx, err := svc.provider.Index(ctx, first.SubDivision.Ref)
	if err != nil {
		return Index{}, errors.Wrapf(err, "fetching index of %s", first.SubDivision.Ref)
	}
	return idx, nil
}

func (svc *Service) read(ctx context.Context, unit study.ChapterUnit) (Reading, error) {
	ch, err := svc.provider.Chapter(ctx, unit.SubDivision.Ref, unit.Chapter)
	if err != nil {
		return Reading{}, errors.Wrapf(err, "fetching %s", unit)
	}
	return Reading{
		Unit:     unit,
		Prev:     svc.seq.Prev(unit),
		Next:     svc.seq.Next(unit),
		Chapter:  ch,
		Segments: Segments(ch),
	}, nil
}

package study

import (
	"fmt"

	"github.com/trezcool/rambam/core/curriculum"
)

// ChapterUnit is one schedulable (sub-division, chapter) pair.
// Division and SubDivision point into data owned by the Sequence; treat them as read-only.
type ChapterUnit struct {
	Index       int // position in the Sequence, 0-indexed
	Chapter     int // 1-indexed within SubDivision
	Division    *curriculum.Division
	SubDivision *curriculum.SubDivision
}

// String renders u as "<sub-division id>.<chapter>", e.g. "sabbath.4".
func (u ChapterUnit) String() string {
	return fmt.Sprintf("%s.%d", u.SubDivision.ID, u.Chapter)
}

// Sequence is the flattened, ordered list of every chapter of a Catalog.
// It is immutable and safe for concurrent use.
type Sequence struct {
	units  []ChapterUnit
	starts map[string]int // sub-division ID -> index of its first chapter
}

// NewSequence flattens cat: divisions in order, then sub-divisions, then chapters 1..N.
func NewSequence(cat *curriculum.Catalog) *Sequence {
	divs := cat.Divisions()
	seq := &Sequence{
		units:  make([]ChapterUnit, 0, cat.ChapterCount()),
		starts: make(map[string]int),
	}
	for i := range divs {
		div := &divs[i]
		for j := range div.SubDivisions {
			sd := &div.SubDivisions[j]
			seq.starts[sd.ID] = len(seq.units)
			for ch := 1; ch <= sd.Chapters; ch++ {
				seq.units = append(seq.units, ChapterUnit{
					Index:       len(seq.units),
					Chapter:     ch,
					Division:    div,
					SubDivision: sd,
				})
			}
		}
	}
	return seq
}

func (s *Sequence) Len() int { return len(s.units) }

// At returns the unit at index i, which must be in [0, Len()).
func (s *Sequence) At(i int) ChapterUnit { return s.units[i] }

// Units returns a copy of the whole sequence.
func (s *Sequence) Units() []ChapterUnit {
	return append([]ChapterUnit(nil), s.units...)
}

// Slice returns up to n units starting at start, never wrapping past the end.
func (s *Sequence) Slice(start, n int) []ChapterUnit {
	if start < 0 || start >= len(s.units) || n <= 0 {
		return []ChapterUnit{}
	}
	end := start + n
	if end > len(s.units) {
		end = len(s.units)
	}
	return append([]ChapterUnit(nil), s.units[start:end]...)
}

// Locate finds the unit for chapter of the sub-division subDivisionID.
func (s *Sequence) Locate(subDivisionID string, chapter int) (ChapterUnit, bool) {
	start, ok := s.starts[subDivisionID]
	if !ok {
		return ChapterUnit{}, false
	}
	u := s.units[start]
	if chapter < 1 || chapter > u.SubDivision.Chapters {
		return ChapterUnit{}, false
	}
	return s.units[start+chapter-1], true
}

// Next returns the unit following u, wrapping from the last chapter back to the first.
func (s *Sequence) Next(u ChapterUnit) ChapterUnit {
	return s.units[(u.Index+1)%len(s.units)]
}

// Prev returns the unit preceding u, wrapping from the first chapter to the last.
func (s *Sequence) Prev(u ChapterUnit) ChapterUnit {
	return s.units[(u.Index-1+len(s.units))%len(s.units)]
}

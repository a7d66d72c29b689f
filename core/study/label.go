package study

import (
	"fmt"
	"strings"

	"github.com/trezcool/rambam/core/curriculum"
)

const labelSeparator = " · "

// Group is a contiguous run of one sub-division's chapters within a day.
type Group struct {
	Division    *curriculum.Division
	SubDivision *curriculum.SubDivision
	First       int
	Last        int
}

func (g Group) String() string {
	if g.First == g.Last {
		return fmt.Sprintf("%s Ch. %d", g.SubDivision.Name, g.First)
	}
	return fmt.Sprintf("%s Ch. %d–%d", g.SubDivision.Name, g.First, g.Last)
}

// Groups splits a day's chapters by sub-division, in order of first appearance.
func Groups(cs CycleState) []Group {
	groups := make([]Group, 0, 2)
	for _, u := range cs.Chapters {
		if n := len(groups); n > 0 && groups[n-1].SubDivision.ID == u.SubDivision.ID {
			groups[n-1].Last = u.Chapter
			continue
		}
		groups = append(groups, Group{
			Division:    u.Division,
			SubDivision: u.SubDivision,
			First:       u.Chapter,
			Last:        u.Chapter,
		})
	}
	return groups
}

// Label describes a day's portion, e.g. "Sabbath Ch. 4–6" or
// "Foundations of the Torah Ch. 10 · Human Dispositions Ch. 1–2".
// Each day is labelled on its own; adjacent days are never merged.
func Label(cs CycleState) string {
	groups := Groups(cs)
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, g.String())
	}
	return strings.Join(parts, labelSeparator)
}

package study

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	s := mustScheduler(t, testCatalog(t), 3)
	one := mustScheduler(t, testCatalog(t), 1)
	wide := mustScheduler(t, testCatalog(t), 12)

	tests := []struct {
		name string
		cs   CycleState
		want string
	}{
		{name: "single range", cs: s.Day(1), want: "Foundations Ch. 4–6"},
		{name: "single chapter", cs: one.Day(9), want: "Foundations Ch. 10"},
		{name: "two groups", cs: s.Day(3), want: "Foundations Ch. 10 · Dispositions Ch. 1–2"},
		{name: "single-chapter tail group", cs: s.Day(5), want: "Dispositions Ch. 6–7 · Shema Ch. 1"},
		{name: "three groups", cs: wide.Day(1), want: "Dispositions Ch. 3–7 · Shema Ch. 1–4 · Fringes Ch. 1–2"},
		{name: "empty", cs: CycleState{}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.cs))
		})
	}
}

func TestGroups(t *testing.T) {
	s := mustScheduler(t, testCatalog(t), 12)

	groups := Groups(s.Day(0))
	if assert.Len(t, groups, 2) {
		assert.Equal(t, "foundations", groups[0].SubDivision.ID)
		assert.Equal(t, "knowledge", groups[0].Division.ID)
		assert.Equal(t, 1, groups[0].First)
		assert.Equal(t, 10, groups[0].Last)
		assert.Equal(t, "dispositions", groups[1].SubDivision.ID)
		assert.Equal(t, 1, groups[1].First)
		assert.Equal(t, 2, groups[1].Last)
	}
}

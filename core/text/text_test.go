package text

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rambam/core"
	"github.com/trezcool/rambam/core/curriculum"
	"github.com/trezcool/rambam/core/study"
)

func setup(t *testing.T) (*Service, *ProviderMock, *study.Service) {
	t.Helper()
	cat, err := curriculum.Default()
	require.NoError(t, err)
	studySvc, err := study.NewService(cat, study.DefaultConfig())
	require.NoError(t, err)
	provider := NewProviderMock()
	return NewService(provider, studySvc.Sequence()), provider, studySvc
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: "<b>bold</b> and <i>italic</i>", want: "bold and italic"},
		{in: `<span class="x">a</span><br/>b`, want: "ab"},
		{in: "a < b", want: "a < b"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}

func TestSegments(t *testing.T) {
	tests := []struct {
		name string
		ch   Chapter
		want []Segment
	}{
		{name: "empty", ch: Chapter{}, want: []Segment{}},
		{
			name: "paired",
			ch:   Chapter{He: []string{"א", "<b>ב</b>"}, Text: []string{"one", "two"}},
			want: []Segment{{1, "א", "one"}, {2, "ב", "two"}},
		},
		{
			name: "hebrew longer",
			ch:   Chapter{He: []string{"א", "ב", "ג"}, Text: []string{"one"}},
			want: []Segment{{1, "א", "one"}, {2, "ב", ""}, {3, "ג", ""}},
		},
		{
			name: "english longer",
			ch:   Chapter{He: nil, Text: []string{"one", "two"}},
			want: []Segment{{1, "", "one"}, {2, "", "two"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Segments(tt.ch)); diff != "" {
				t.Errorf("Segments() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestService_Read(t *testing.T) {
	svc, provider, _ := setup(t)

	r, err := svc.Read(context.Background(), "dispositions", 1)
	require.NoError(t, err)
	assert.Equal(t, "dispositions.1", r.Unit.String())
	assert.Equal(t, "foundations.10", r.Prev.String())
	assert.Equal(t, "dispositions.2", r.Next.String())
	assert.Equal(t, "Mishneh Torah, Human Dispositions 1", r.Chapter.Ref)
	require.Len(t, r.Segments, 3)
	assert.Equal(t, "Mishneh Torah, Human Dispositions 1:1 English", r.Segments[0].English)
	assert.Equal(t, 1, provider.Calls("Mishneh Torah, Human Dispositions", 1))

	last, err := svc.Read(context.Background(), "kings", 12)
	require.NoError(t, err)
	assert.Equal(t, "foundations.1", last.Next.String())
}

func TestService_Read_Invalid(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Read(context.Background(), "lol", 1)
	assert.Equal(t, curriculum.ErrUnknownTreatise, errors.Cause(err))

	for _, chapter := range []int{0, -1, 8} {
		_, err = svc.Read(context.Background(), "dispositions", chapter)
		var vErr *core.ValidationError
		if assert.True(t, errors.As(err, &vErr), "chapter %d", chapter) {
			assert.Equal(t, map[string]string{"chapter": "chapter must be between 1 and 7"}, vErr.FieldMap())
		}
	}
}

func TestService_ReadDay(t *testing.T) {
	svc, provider, studySvc := setup(t)

	cs := studySvc.Scheduler().Day(3)
	readings, err := svc.ReadDay(context.Background(), cs)
	require.NoError(t, err)

	got := make([]string, 0, len(readings))
	for _, r := range readings {
		got = append(got, r.Unit.String())
		assert.Equal(t, MockChapter(r.Unit.SubDivision.Ref, r.Unit.Chapter), r.Chapter)
	}
	assert.Equal(t, []string{"foundations.10", "dispositions.1", "dispositions.2"}, got)
	assert.Equal(t, 1, provider.Calls("Mishneh Torah, Foundations of the Torah", 10))
}

func TestService_ReadDay_Failure(t *testing.T) {
	svc, provider, studySvc := setup(t)
	provider.FailOn("Mishneh Torah, Human Dispositions", 2, errors.New("boom"))

	_, err := svc.ReadDay(context.Background(), studySvc.Scheduler().Day(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dispositions.2")
	assert.Contains(t, err.Error(), "boom")
}

func TestService_Index(t *testing.T) {
	svc, _, _ := setup(t)

	idx, err := svc.Index(context.Background(), "sabbath")
	require.NoError(t, err)
	assert.Equal(t, "Mishneh Torah, Sabbath", idx.Title)
	assert.Equal(t, 10, idx.ChapterCount())

	_, err = svc.Index(context.Background(), "lol")
	assert.Equal(t, curriculum.ErrUnknownTreatise, errors.Cause(err))
}

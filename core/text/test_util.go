package text

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// ProviderMock serves generated chapters of three halakhot each. Failures can be injected per chapter.
type ProviderMock struct {
	mu     sync.Mutex
	calls  map[string]int
	errs   map[string]error
	hidden map[string]bool
}

var _ Provider = (*ProviderMock)(nil)

func NewProviderMock() *ProviderMock {
	return &ProviderMock{
		calls:  make(map[string]int),
		errs:   make(map[string]error),
		hidden: make(map[string]bool),
	}
}

func mockKey(ref string, chapter int) string { return fmt.Sprintf("%s.%d", ref, chapter) }

// FailOn makes every fetch of ref.chapter return err.
func (p *ProviderMock) FailOn(ref string, chapter int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs[mockKey(ref, chapter)] = err
}

// Calls reports how many times ref.chapter was fetched. A chapter of 0 counts index fetches.
func (p *ProviderMock) Calls(ref string, chapter int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[mockKey(ref, chapter)]
}

func (p *ProviderMock) Chapter(ctx context.Context, ref string, chapter int) (Chapter, error) {
	key := mockKey(ref, chapter)

	p.mu.Lock()
	p.calls[key]++
	err := p.errs[key]
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Chapter{}, err
	}
	if err != nil {
		return Chapter{}, err
	}
	return MockChapter(ref, chapter), nil
}

func (p *ProviderMock) Index(ctx context.Context, ref string) (Index, error) {
	key := mockKey(ref, 0)

	p.mu.Lock()
	p.calls[key]++
	err := p.errs[key]
	p.mu.Unlock()

	if err != nil {
		return Index{}, err
	}
	if err := ctx.Err(); err != nil {
		return Index{}, errors.Wrap(err, "index")
	}
	return Index{
		Title:      ref,
		HeTitle:    "משנה תורה",
		Categories: []string{"Halakhah", "Mishneh Torah"},
		Schema:     Schema{Lengths: []int{10, 30}},
	}, nil
}

// MockChapter is the chapter ProviderMock serves for ref.chapter.
func MockChapter(ref string, chapter int) Chapter {
	return Chapter{
		Ref:   fmt.Sprintf("%s %d", ref, chapter),
		HeRef: fmt.Sprintf("משנה תורה %d", chapter),
		Book:  ref,
		Text: []string{
			fmt.Sprintf("<b>%s %d:1</b> English", ref, chapter),
			fmt.Sprintf("%s %d:2 English", ref, chapter),
			fmt.Sprintf("%s %d:3 <i>English</i>", ref, chapter),
		},
		He: []string{
			fmt.Sprintf("%d:1 עברית", chapter),
			fmt.Sprintf("%d:2 עברית", chapter),
			fmt.Sprintf("%d:3 <small>עברית</small>", chapter),
		},
		SectionNames: []string{"Chapter", "Halakhah"},
		Lengths:      []int{10, 30},
	}
}

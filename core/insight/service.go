package insight

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/rambam/core"
	"github.com/trezcool/rambam/core/curriculum"
	"github.com/trezcool/rambam/core/study"
)

var ErrNotFound = errors.New("article not found")

var newestFirst = core.DBOrdering{Field: "created_at"}

type (
	Repository interface {
		CreateArticle(ctx context.Context, a Article, exec ...core.DBExecutor) (Article, error)
		GetArticle(ctx context.Context, id string, exec ...core.DBExecutor) (Article, error)
		// QueryArticles returns the articles matching filter, newest first unless ordering says otherwise.
		QueryArticles(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Article, error)
	}

	// Service reads published articles. Repository errors are returned as they are, wrapped.
	Service struct {
		repo    Repository
		catalog *curriculum.Catalog
	}
)

func NewService(repo Repository, catalog *curriculum.Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

func (svc *Service) treatiseFilter(treatiseID string) (QueryFilter, error) {
	_, sd, ok := svc.catalog.FindSubDivision(treatiseID)
	if !ok {
		return QueryFilter{}, errors.Wrapf(curriculum.ErrUnknownTreatise, "%q", treatiseID)
	}
	return QueryFilter{
		Status:       StatusPublished,
		TreatiseID:   sd.ID,
		TreatiseName: sd.Name,
	}, nil
}

// Create stores a new article.
func (svc *Service) Create(ctx context.Context, a Article) (Article, error) {
	return svc.repo.CreateArticle(ctx, a)
}

// Get returns a published article by id.
func (svc *Service) Get(ctx context.Context, id string) (Article, error) {
	a, err := svc.repo.GetArticle(ctx, id)
	if err != nil {
		return Article{}, err
	}
	if !a.IsPublished() {
		return Article{}, ErrNotFound
	}
	return a, nil
}

// ForTreatise lists the published articles of a treatise.
func (svc *Service) ForTreatise(ctx context.Context, treatiseID string, ordering ...core.DBOrdering) ([]Article, error) {
	filter, err := svc.treatiseFilter(treatiseID)
	if err != nil {
		return nil, err
	}
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{newestFirst}
	}
	articles, err := svc.repo.QueryArticles(ctx, filter, ordering)
	if err != nil {
		return nil, errors.Wrap(err, "querying treatise articles")
	}
	return articles, nil
}

// ForChapter lists the published articles whose chapter range contains chapter.
func (svc *Service) ForChapter(ctx context.Context, treatiseID string, chapter int) ([]Article, error) {
	filter, err := svc.treatiseFilter(treatiseID)
	if err != nil {
		return nil, err
	}
	filter.TreatiseName = ""
	filter.Chapter = chapter
	articles, err := svc.repo.QueryArticles(ctx, filter, []core.DBOrdering{newestFirst})
	if err != nil {
		return nil, errors.Wrap(err, "querying chapter articles")
	}
	return articles, nil
}

// ForRange returns the newest published article keyed to exactly start-end.
func (svc *Service) ForRange(ctx context.Context, treatiseID string, start, end int) (Article, error) {
	filter, err := svc.treatiseFilter(treatiseID)
	if err != nil {
		return Article{}, err
	}
	filter.TreatiseName = ""
	filter.StartChapter = start
	filter.EndChapter = end
	filter.Limit = 1
	articles, err := svc.repo.QueryArticles(ctx, filter, []core.DBOrdering{newestFirst})
	if err != nil {
		return Article{}, errors.Wrap(err, "querying range article")
	}
	if len(articles) == 0 {
		return Article{}, ErrNotFound
	}
	return articles[0], nil
}

// Latest returns the newest published article, of contentType if it is not empty.
func (svc *Service) Latest(ctx context.Context, contentType string) (Article, error) {
	filter := QueryFilter{Status: StatusPublished, ContentType: contentType, Limit: 1}
	articles, err := svc.repo.QueryArticles(ctx, filter, []core.DBOrdering{newestFirst})
	if err != nil {
		return Article{}, errors.Wrap(err, "querying latest article")
	}
	if len(articles) == 0 {
		return Article{}, ErrNotFound
	}
	return articles[0], nil
}

// ForDay returns, per day group, the newest article keyed to exactly that group.
// Groups without one are absent from the result.
func (svc *Service) ForDay(ctx context.Context, cs study.CycleState) (map[string]Article, error) {
	found := make(map[string]Article)
	for _, g := range study.Groups(cs) {
		a, err := svc.ForRange(ctx, g.SubDivision.ID, g.First, g.Last)
		if errors.Cause(err) == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		found[RangeKey(g.SubDivision.ID, g.First, g.Last)] = a
	}
	return found, nil
}

// Misaligned lists the published ranged articles whose range matches no day group
// of the scheduler's cycle. Such articles never come up as a day's insight.
func (svc *Service) Misaligned(ctx context.Context, sched *study.Scheduler) ([]Article, error) {
	groups := make(map[string]bool)
	for d := 0; d < sched.CycleLength(); d++ {
		for _, g := range study.Groups(sched.Day(d)) {
			groups[RangeKey(g.SubDivision.ID, g.First, g.Last)] = true
		}
	}

	articles, err := svc.repo.QueryArticles(ctx, QueryFilter{Status: StatusPublished, RangedOnly: true}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying ranged articles")
	}
	misaligned := make([]Article, 0)
	for _, a := range articles {
		if !groups[a.RangeKey()] {
			misaligned = append(misaligned, a)
		}
	}
	sort.SliceStable(misaligned, func(i, j int) bool { return misaligned[i].RangeKey() < misaligned[j].RangeKey() })
	return misaligned, nil
}

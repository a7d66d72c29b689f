package insight

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/rambam/core"
)

// RepositoryMock is an in-memory Repository.
type RepositoryMock struct {
	mutex    sync.RWMutex
	articles map[string]Article
	err      error
}

var _ Repository = (*RepositoryMock)(nil)

func NewRepositoryMock(articles ...Article) *RepositoryMock {
	repo := &RepositoryMock{articles: make(map[string]Article)}
	for _, a := range articles {
		_, _ = repo.CreateArticle(context.Background(), a)
	}
	return repo
}

// FailWith makes every later call return err.
func (repo *RepositoryMock) FailWith(err error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	repo.err = err
}

func (repo *RepositoryMock) CreateArticle(_ context.Context, a Article, _ ...core.DBExecutor) (Article, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if repo.err != nil {
		return Article{}, repo.err
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	repo.articles[a.ID] = a
	return a, nil
}

func (repo *RepositoryMock) GetArticle(_ context.Context, id string, _ ...core.DBExecutor) (Article, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if repo.err != nil {
		return Article{}, repo.err
	}
	if a, ok := repo.articles[id]; ok {
		return a, nil
	}
	return Article{}, ErrNotFound
}

func (repo *RepositoryMock) QueryArticles(_ context.Context, filter QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]Article, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if repo.err != nil {
		return nil, repo.err
	}
	result := make([]Article, 0, len(repo.articles))
	for _, a := range repo.articles {
		if matches(filter, a) {
			result = append(result, a)
		}
	}
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{newestFirst}
	}
	sort.SliceStable(result, func(i, j int) bool {
		for _, ord := range ordering {
			c := compare(ord.Field, result[i], result[j])
			if c == 0 {
				continue
			}
			return (c < 0) == ord.Ascending
		}
		return result[i].ID < result[j].ID
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func matches(f QueryFilter, a Article) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.ContentType != "" && a.ContentType != f.ContentType {
		return false
	}
	if f.TreatiseID != "" && a.TreatiseID != f.TreatiseID {
		legacy := f.TreatiseName != "" && a.TreatiseID == "" &&
			strings.Contains(strings.ToLower(a.Hilchot), strings.ToLower(f.TreatiseName))
		if !legacy {
			return false
		}
	}
	if f.Chapter > 0 && !a.Covers(f.Chapter) {
		return false
	}
	if f.StartChapter > 0 && (a.StartChapter != f.StartChapter || a.EndChapter != f.EndChapter) {
		return false
	}
	if f.RangedOnly && !a.HasRange() {
		return false
	}
	return true
}

func compare(field string, a, b Article) int {
	switch field {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "published_at":
		return a.PublishedAt.Compare(b.PublishedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

package sqlxrepos

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/rambam/core"
	"github.com/trezcool/rambam/core/insight"
)

const articleColumns = `id, content_type, title, body, body_format, summary, hook, status,
	rambam_date, rambam_chapters, sefer, hilchot, treatise_id, start_chapter, end_chapter,
	tags, source, media_url, media_type, created_at, updated_at, published_at`

type articleRow struct {
	ID             string      `db:"id"`
	ContentType    string      `db:"content_type"`
	Title          string      `db:"title"`
	Body           string      `db:"body"`
	BodyFormat     string      `db:"body_format"`
	Summary        null.String `db:"summary"`
	Hook           null.String `db:"hook"`
	Status         string      `db:"status"`
	RambamDate     null.String `db:"rambam_date"`
	RambamChapters null.String `db:"rambam_chapters"`
	Sefer          null.String `db:"sefer"`
	Hilchot        null.String `db:"hilchot"`
	TreatiseID     null.String `db:"treatise_id"`
	StartChapter   null.Int    `db:"start_chapter"`
	EndChapter     null.Int    `db:"end_chapter"`
	Tags           null.String `db:"tags"` // JSON array
	Source         null.String `db:"source"`
	MediaURL       null.String `db:"media_url"`
	MediaType      null.String `db:"media_type"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
	PublishedAt    null.Time   `db:"published_at"`
}

type articleRepository struct {
	db *sqlx.DB
}

var _ insight.Repository = (*articleRepository)(nil) // interface compliance check

func NewArticleRepository(db *sqlx.DB) *articleRepository {
	return &articleRepository{db: db}
}

func (repo articleRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.db
}

func optString(s string) null.String { return null.NewString(s, s != "") }
func optInt(i int) null.Int          { return null.NewInt(i, i > 0) }

func (repo articleRepository) toRow(a insight.Article) (articleRow, error) {
	row := articleRow{
		ID:             a.ID,
		ContentType:    a.ContentType,
		Title:          a.Title,
		Body:           a.Body,
		BodyFormat:     a.BodyFormat,
		Summary:        optString(a.Summary),
		Hook:           optString(a.Hook),
		Status:         a.Status,
		RambamDate:     optString(a.StudyDate),
		RambamChapters: optString(a.Chapters),
		Sefer:          optString(a.Sefer),
		Hilchot:        optString(a.Hilchot),
		TreatiseID:     optString(a.TreatiseID),
		StartChapter:   optInt(a.StartChapter),
		EndChapter:     optInt(a.EndChapter),
		Source:         optString(a.Source),
		MediaURL:       optString(a.MediaURL),
		MediaType:      optString(a.MediaType),
		CreatedAt:      a.CreatedAt.UTC(),
		UpdatedAt:      a.UpdatedAt.UTC(),
		PublishedAt:    null.NewTime(a.PublishedAt.UTC(), !a.PublishedAt.IsZero()),
	}
	if len(a.Tags) > 0 {
		tags, err := json.Marshal(a.Tags)
		if err != nil {
			return articleRow{}, errors.Wrap(err, "encoding tags")
		}
		row.Tags = null.StringFrom(string(tags))
	}
	return row, nil
}

func (repo articleRepository) fromRow(row articleRow) (insight.Article, error) {
	a := insight.Article{
		ID:           row.ID,
		ContentType:  row.ContentType,
		Title:        row.Title,
		Body:         row.Body,
		BodyFormat:   row.BodyFormat,
		Summary:      row.Summary.String,
		Hook:         row.Hook.String,
		Status:       row.Status,
		StudyDate:    row.RambamDate.String,
		Chapters:     row.RambamChapters.String,
		Sefer:        row.Sefer.String,
		Hilchot:      row.Hilchot.String,
		TreatiseID:   row.TreatiseID.String,
		StartChapter: row.StartChapter.Int,
		EndChapter:   row.EndChapter.Int,
		Source:       row.Source.String,
		MediaURL:     row.MediaURL.String,
		MediaType:    row.MediaType.String,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
	if row.PublishedAt.Valid {
		a.PublishedAt = row.PublishedAt.Time.UTC()
	}
	if row.Tags.Valid {
		if err := json.Unmarshal([]byte(row.Tags.String), &a.Tags); err != nil {
			return insight.Article{}, errors.Wrapf(err, "decoding tags of article %s", row.ID)
		}
	}
	return a, nil
}

func (repo articleRepository) fromRows(rows []articleRow) ([]insight.Article, error) {
	articles := make([]insight.Article, 0, len(rows))
	for _, row := range rows {
		a, err := repo.fromRow(row)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, nil
}

func (repo articleRepository) CreateArticle(ctx context.Context, a insight.Article, exec ...core.DBExecutor) (insight.Article, error) {
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
	if a.BodyFormat == "" {
		a.BodyFormat = insight.FormatHTML
	}
	if a.Status == "" {
		a.Status = insight.StatusDraft
	}
	row, err := repo.toRow(a)
	if err != nil {
		return insight.Article{}, err
	}

	q, args, err := sqlx.Named(`INSERT INTO content (`+articleColumns+`) VALUES (
		:id, :content_type, :title, :body, :body_format, :summary, :hook, :status,
		:rambam_date, :rambam_chapters, :sefer, :hilchot, :treatise_id, :start_chapter, :end_chapter,
		:tags, :source, :media_url, :media_type, :created_at, :updated_at, :published_at)`, row)
	if err != nil {
		return insight.Article{}, errors.Wrap(err, "binding article")
	}
	if _, err = repo.getExec(exec).ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return insight.Article{}, errors.Wrap(err, "inserting article")
	}
	return repo.fromRow(row)
}

func (repo articleRepository) GetArticle(ctx context.Context, id string, exec ...core.DBExecutor) (insight.Article, error) {
	found, err := repo.query(ctx, repo.getExec(exec), "SELECT "+articleColumns+" FROM content WHERE id = ?", id)
	if err != nil {
		return insight.Article{}, errors.Wrap(err, "finding article by ID")
	}
	if len(found) == 0 {
		return insight.Article{}, insight.ErrNotFound
	}
	return found[0], nil
}

func (repo articleRepository) QueryArticles(ctx context.Context, filter insight.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]insight.Article, error) {
	var (
		where []string
		args  []interface{}
	)

	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.ContentType != "" {
		where = append(where, "content_type = ?")
		args = append(args, filter.ContentType)
	}
	if filter.TreatiseID != "" {
		if filter.TreatiseName != "" {
			// rows written before treatise_id existed only name their treatise in hilchot
			where = append(where, "(treatise_id = ? OR (treatise_id IS NULL AND LOWER(hilchot) LIKE ?))")
			args = append(args, filter.TreatiseID, "%"+strings.ToLower(filter.TreatiseName)+"%")
		} else {
			where = append(where, "treatise_id = ?")
			args = append(args, filter.TreatiseID)
		}
	}
	if filter.Chapter > 0 {
		where = append(where, "start_chapter <= ? AND end_chapter >= ?")
		args = append(args, filter.Chapter, filter.Chapter)
	}
	if filter.StartChapter > 0 {
		where = append(where, "start_chapter = ? AND end_chapter = ?")
		args = append(args, filter.StartChapter, filter.EndChapter)
	}
	if filter.RangedOnly {
		where = append(where, "treatise_id IS NOT NULL AND start_chapter > 0 AND end_chapter >= start_chapter")
	}

	orderBy, err := core.OrderByClause(ordering, insight.OrderingFields, core.DBOrdering{Field: "created_at"})
	if err != nil {
		return nil, err
	}

	q := "SELECT " + articleColumns + " FROM content"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY " + orderBy + ", id ASC"
	if filter.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	articles, err := repo.query(ctx, repo.getExec(exec), q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying articles")
	}
	return articles, nil
}

func (repo articleRepository) query(ctx context.Context, exec core.DBExecutor, q string, args ...interface{}) ([]insight.Article, error) {
	rows, err := exec.QueryContext(ctx, repo.db.Rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var found []articleRow
	if err = sqlx.StructScan(rows, &found); err != nil {
		return nil, err
	}
	return repo.fromRows(found)
}

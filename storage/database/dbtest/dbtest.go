package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/rambam/core"
	"github.com/trezcool/rambam/core/insight"
	"github.com/trezcool/rambam/storage/database"
)

// Config returns a config pointing at a fresh SQLite file under t.TempDir().
func Config(t *testing.T) *core.Config {
	t.Helper()
	return &core.Config{
		Database: core.DatabaseConfig{
			Engine: database.SQLite,
			Name:   filepath.Join(t.TempDir(), "rambam_test.db"),
		},
	}
}

// PrepareDB opens a migrated SQLite database, closed when the test ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conf := Config(t)

	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("database.Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db, conf.Database.Engine); err != nil {
		t.Fatalf("database.Migrate() failed: %v", err)
	}
	return database.NewSqlx(db, conf)
}

// CreateArticle stores a; a zero CreatedAt defaults to now.
func CreateArticle(t *testing.T, repo insight.Repository, a insight.Article, createdAt ...time.Time) insight.Article {
	t.Helper()
	if len(createdAt) > 0 {
		a.CreatedAt = createdAt[0].UTC()
		a.UpdatedAt = a.CreatedAt
	}
	a, err := repo.CreateArticle(context.Background(), a)
	if err != nil {
		t.Fatalf("CreateArticle() failed: %v", err)
	}
	return a
}

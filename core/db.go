package core

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
)

type (
	DBExecutor interface {
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
		QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	}

	DB interface {
		DBExecutor

		BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error)
		PingContext(context.Context) error
		Close() error
	}
)

var _ DB = (*sql.DB)(nil)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// OrderByClause renders orderings as an ORDER BY list. Only fields in allowed are accepted;
// allowed maps an API field name to its column. fallback is used when orderings is empty.
func OrderByClause(orderings []DBOrdering, allowed map[string]string, fallback ...DBOrdering) (string, error) {
	if len(orderings) == 0 {
		orderings = fallback
	}
	list := make([]string, 0, len(orderings))
	var invalid []FieldError
	for _, ord := range orderings {
		col, ok := allowed[ord.Field]
		if !ok {
			invalid = append(invalid, FieldError{Field: "ordering", Error: "cannot order by " + ord.Field})
			continue
		}
		list = append(list, DBOrdering{Field: col, Ascending: ord.Ascending}.String())
	}
	if len(invalid) > 0 {
		return "", NewValidationError(errors.New("invalid ordering"), invalid...)
	}
	return strings.Join(list, ", "), nil
}

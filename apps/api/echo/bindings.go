package echoapi

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/rambam/core"
	"github.com/trezcool/rambam/core/study"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// DateQuery is the optional ?date=YYYY-MM-DD of the study endpoints.
type DateQuery struct {
	Date string `query:"date" validate:"omitempty,ymd"`
}

// Bind reads and validates the query. ok is false when no date was given.
func (q *DateQuery) Bind(ctx echo.Context, validate *validator.Validate) (date time.Time, ok bool, err error) {
	q.Date = strings.TrimSpace(ctx.QueryParam("date"))
	if err = validate.Struct(q); err != nil {
		return time.Time{}, false, err
	}
	if q.Date == "" {
		return time.Time{}, false, nil
	}
	date, err = study.ParseDate(q.Date)
	if err != nil {
		return time.Time{}, false, errors.Wrap(err, "parsing date")
	}
	return date, true, nil
}

package todo

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultLimit = 5
	maxLimit     = 100
)

type Period string

const (
	PeriodNone     Period = ""
	PeriodToday    Period = "today"
	PeriodUpcoming Period = "upcoming"
)

// ListFilter is the fully validated query shape handed to the repository.
// All constraints combine with AND; zero-value fields impose none.
type ListFilter struct {
	Categories []Category
	Statuses   []Status

	DeadlineFrom *time.Time
	DeadlineTo   *time.Time

	Limit  int
	Offset int
}

// ParseListFilter validates query parameters before any query runs. The
// period window is resolved against loc, not the server's zone.
func ParseListFilter(q url.Values, now time.Time, loc *time.Location) (ListFilter, error) {
	f := ListFilter{Limit: defaultLimit}

	for _, raw := range q["category"] {
		c, err := ParseCategory(raw)
		if err != nil {
			return ListFilter{}, err
		}
		f.Categories = append(f.Categories, c)
	}

	for _, raw := range q["status"] {
		s, err := ParseStatus(raw)
		if err != nil {
			return ListFilter{}, err
		}
		f.Statuses = append(f.Statuses, s)
	}

	switch Period(q.Get("period")) {
	case PeriodNone:
	case PeriodToday:
		from, to := DayWindow(now, loc)
		f.DeadlineFrom, f.DeadlineTo = &from, &to
	case PeriodUpcoming:
		from, to := WeekWindow(now, loc)
		f.DeadlineFrom, f.DeadlineTo = &from, &to
	default:
		return ListFilter{}, fmt.Errorf("%w: unknown period %q", ErrInvalidInput, q.Get("period"))
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxLimit {
			return ListFilter{}, fmt.Errorf("%w: limit must be an integer in [1,%d]", ErrInvalidInput, maxLimit)
		}
		f.Limit = limit
	}

	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return ListFilter{}, fmt.Errorf("%w: offset must be a non-negative integer", ErrInvalidInput)
		}
		f.Offset = offset
	}

	return f, nil
}

package todo

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func budapest(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Budapest")
	require.NoError(t, err)
	return loc
}

func TestParseListFilter_Defaults(t *testing.T) {
	t.Parallel()

	f, err := ParseListFilter(url.Values{}, time.Now(), time.UTC)
	require.NoError(t, err)

	assert.Empty(t, f.Categories)
	assert.Empty(t, f.Statuses)
	assert.Nil(t, f.DeadlineFrom)
	assert.Nil(t, f.DeadlineTo)
	assert.Equal(t, 5, f.Limit)
	assert.Equal(t, 0, f.Offset)
}

func TestParseListFilter_RepeatedParams(t *testing.T) {
	t.Parallel()

	q := url.Values{
		"category": {"work", "development"},
		"status":   {"backlog", "progress"},
		"limit":    {"20"},
		"offset":   {"40"},
	}

	f, err := ParseListFilter(q, time.Now(), time.UTC)
	require.NoError(t, err)

	assert.Equal(t, []Category{CategoryWork, CategoryDevelopment}, f.Categories)
	assert.Equal(t, []Status{StatusBacklog, StatusProgress}, f.Statuses)
	assert.Equal(t, 20, f.Limit)
	assert.Equal(t, 40, f.Offset)
}

func TestParseListFilter_FailsFastOnBadTokens(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		q    url.Values
	}{
		{"unknown category", url.Values{"category": {"hobby"}}},
		{"one bad category among good", url.Values{"category": {"work", "hobby"}}},
		{"unknown status", url.Values{"status": {"paused"}}},
		{"unknown period", url.Values{"period": {"yesterday"}}},
		{"limit zero", url.Values{"limit": {"0"}}},
		{"limit above cap", url.Values{"limit": {"101"}}},
		{"limit not a number", url.Values{"limit": {"ten"}}},
		{"negative offset", url.Values{"offset": {"-1"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseListFilter(tc.q, time.Now(), time.UTC)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestParseListFilter_PeriodToday(t *testing.T) {
	t.Parallel()

	loc := budapest(t)

	// 2026-08-14 10:00 UTC is 12:00 in Budapest (CEST, UTC+2)
	now := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)

	f, err := ParseListFilter(url.Values{"period": {"today"}}, now, loc)
	require.NoError(t, err)

	require.NotNil(t, f.DeadlineFrom)
	require.NotNil(t, f.DeadlineTo)

	want := time.Date(2026, 8, 14, 0, 0, 0, 0, loc)
	assert.True(t, f.DeadlineFrom.Equal(want), "got %v want %v", f.DeadlineFrom, want)
	assert.Equal(t, 24*time.Hour, f.DeadlineTo.Sub(*f.DeadlineFrom))
}

func TestParseListFilter_PeriodTodayAcrossDST(t *testing.T) {
	t.Parallel()

	loc := budapest(t)

	// spring-forward day in Budapest: the local day is only 23 hours long
	now := time.Date(2026, 3, 29, 12, 0, 0, 0, loc)

	f, err := ParseListFilter(url.Values{"period": {"today"}}, now, loc)
	require.NoError(t, err)

	assert.Equal(t, 0, f.DeadlineFrom.In(loc).Hour())
	assert.Equal(t, 0, f.DeadlineTo.In(loc).Hour())
	assert.Equal(t, 23*time.Hour, f.DeadlineTo.Sub(*f.DeadlineFrom))
}

func TestParseListFilter_PeriodUpcoming(t *testing.T) {
	t.Parallel()

	loc := budapest(t)

	// Friday 2026-08-14
	now := time.Date(2026, 8, 14, 10, 0, 0, 0, loc)

	f, err := ParseListFilter(url.Values{"period": {"upcoming"}}, now, loc)
	require.NoError(t, err)

	wantFrom := time.Date(2026, 8, 10, 0, 0, 0, 0, loc) // Monday
	wantTo := time.Date(2026, 8, 17, 0, 0, 0, 0, loc)   // next Monday
	assert.True(t, f.DeadlineFrom.Equal(wantFrom), "got %v want %v", f.DeadlineFrom, wantFrom)
	assert.True(t, f.DeadlineTo.Equal(wantTo), "got %v want %v", f.DeadlineTo, wantTo)
}

func TestWeekWindow_SundayBelongsToCurrentWeek(t *testing.T) {
	t.Parallel()

	// Sunday 2026-08-16: the ISO week started the previous Monday
	now := time.Date(2026, 8, 16, 23, 0, 0, 0, time.UTC)

	from, to := WeekWindow(now, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), to)
}

func TestDayWindow_UTC(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 14, 23, 59, 59, 0, time.UTC)

	from, to := DayWindow(now, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), to)
}

package todo

import (
	"context"
	"time"
)

type ReportType string

const (
	ReportDaily  ReportType = "daily"
	ReportWeekly ReportType = "weekly"
)

// Report partitions a user's todos over a window: Done holds todos completed
// inside the window, Due holds unfinished todos whose deadline falls inside
// it. A todo can appear in at most one partition.
type Report struct {
	Type ReportType
	From time.Time
	To   time.Time
	Done []Todo
	Due  []Todo
}

// Report windows are fixed UTC, independent of the list filter's zone.
// The two policies are configured separately on purpose.

func (s *service) DailyReport(ctx context.Context, userID int64) (*Report, error) {
	from, to := DayWindow(s.now(), time.UTC)
	return s.buildReport(ctx, userID, ReportDaily, from, to)
}

func (s *service) WeeklyReport(ctx context.Context, userID int64) (*Report, error) {
	from, to := WeekWindow(s.now(), time.UTC)
	return s.buildReport(ctx, userID, ReportWeekly, from, to)
}

func (s *service) buildReport(ctx context.Context, userID int64, rt ReportType, from, to time.Time) (*Report, error) {
	done, err := s.repo.ListCompletedBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	due, err := s.repo.ListDueBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	if done == nil {
		done = []Todo{}
	}
	if due == nil {
		due = []Todo{}
	}

	return &Report{Type: rt, From: from, To: to, Done: done, Due: due}, nil
}

package todo

import (
	"context"
	"fmt"
	"time"
)

const (
	minTitleLen = 3
	maxTitleLen = 255
	minPriority = 1
	maxPriority = 5
)

type Service interface {
	CreateTodo(ctx context.Context, userID int64, in CreateTodoInput) (*Todo, error)
	GetTodo(ctx context.Context, id, userID int64) (*Todo, error)
	ListTodos(ctx context.Context, userID int64, f ListFilter) (*ListResult, error)
	UpdateTodo(ctx context.Context, id, userID int64, in UpdateTodoInput) (*Todo, error)
	DeleteTodo(ctx context.Context, id, userID int64) error

	DailyReport(ctx context.Context, userID int64) (*Report, error)
	WeeklyReport(ctx context.Context, userID int64) (*Report, error)
}

type service struct {
	repo TodoRepository
	now  func() time.Time
}

func NewService(repo TodoRepository) Service {
	return &service{repo: repo, now: time.Now}
}

func validateTitle(title string) error {
	if len(title) < minTitleLen || len(title) > maxTitleLen {
		return fmt.Errorf("%w: title must be %d-%d characters", ErrInvalidInput, minTitleLen, maxTitleLen)
	}
	return nil
}

func validatePriority(p int) error {
	if p < minPriority || p > maxPriority {
		return fmt.Errorf("%w: priority must be in [%d,%d]", ErrInvalidInput, minPriority, maxPriority)
	}
	return nil
}

// ===== Create =====

func (s *service) CreateTodo(ctx context.Context, userID int64, in CreateTodoInput) (*Todo, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}

	if in.Deadline.IsZero() {
		return nil, fmt.Errorf("%w: deadline is required", ErrInvalidInput)
	}

	category := CategoryPersonal
	if in.Category != nil {
		c, err := ParseCategory(*in.Category)
		if err != nil {
			return nil, err
		}
		category = c
	}

	status := StatusBacklog
	if in.Status != nil {
		st, err := ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		status = st
	}

	priority := minPriority
	if in.Priority != nil {
		if err := validatePriority(*in.Priority); err != nil {
			return nil, err
		}
		priority = *in.Priority
	}

	t := &Todo{
		Title:       in.Title,
		Description: in.Description,
		Category:    category,
		Status:      status,
		Deadline:    in.Deadline,
		Priority:    priority,
		UserID:      userID,
	}

	// completed_at is set iff the todo is born done
	if status == StatusDone {
		now := s.now().UTC()
		t.CompletedAt = &now
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// ===== Get / List =====

func (s *service) GetTodo(ctx context.Context, id, userID int64) (*Todo, error) {
	return s.repo.GetByID(ctx, id, userID)
}

func (s *service) ListTodos(ctx context.Context, userID int64, f ListFilter) (*ListResult, error) {
	items, total, err := s.repo.List(ctx, userID, f)
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []Todo{}
	}

	return &ListResult{Items: items, Total: total}, nil
}

// ===== Update =====

// UpdateTodo applies a partial patch: only non-nil input fields change. A
// status transition to done stamps completed_at, any transition away from
// done clears it.
func (s *service) UpdateTodo(ctx context.Context, id, userID int64, in UpdateTodoInput) (*Todo, error) {
	existing, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return nil, err
		}
		existing.Title = *in.Title
	}

	if in.Description.Set {
		existing.Description = in.Description.Value
	}

	if in.Category != nil {
		c, err := ParseCategory(*in.Category)
		if err != nil {
			return nil, err
		}
		existing.Category = c
	}

	if in.Status != nil {
		st, err := ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		existing.Status = st

		if st == StatusDone {
			now := s.now().UTC()
			existing.CompletedAt = &now
		} else {
			existing.CompletedAt = nil
		}
	}

	if in.Deadline != nil {
		if in.Deadline.IsZero() {
			return nil, fmt.Errorf("%w: deadline cannot be zero", ErrInvalidInput)
		}
		existing.Deadline = *in.Deadline
	}

	if in.Priority != nil {
		if err := validatePriority(*in.Priority); err != nil {
			return nil, err
		}
		existing.Priority = *in.Priority
	}

	if in.Archived != nil {
		existing.Archived = *in.Archived
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

// ===== Delete =====

func (s *service) DeleteTodo(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}

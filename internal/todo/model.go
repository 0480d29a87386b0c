package todo

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound     = errors.New("todo not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Category and Status are closed sets. Unknown tokens are rejected at the
// boundary instead of being stored as-is.

type Category string

const (
	CategoryWork        Category = "work"
	CategoryPersonal    Category = "personal"
	CategoryDevelopment Category = "development"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryWork, CategoryPersonal, CategoryDevelopment:
		return Category(s), nil
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s)
}

type Status string

const (
	StatusBacklog  Status = "backlog"
	StatusProgress Status = "progress"
	StatusDone     Status = "done"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusBacklog, StatusProgress, StatusDone:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
}

type Todo struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Category    Category `json:"category"`
	Status      Status   `json:"status"`

	Deadline    time.Time  `json:"deadline"`
	Priority    int        `json:"priority"`
	Archived    bool       `json:"archived"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	UserID int64 `json:"user_id"`

	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

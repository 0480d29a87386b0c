package todo

import (
	"encoding/json"
	"time"
)

// Optional distinguishes a field that was absent from one set to an explicit
// JSON null: Set is true whenever the key appeared, Value is nil for null.
// Plain pointers cannot make that distinction, and for nullable columns an
// explicit null must clear the stored value.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

type CreateTodoInput struct {
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Status      *string   `json:"status"`
	Deadline    time.Time `json:"deadline"`
	Priority    *int      `json:"priority"`
}

// UpdateTodoInput is a partial patch: an absent field stays untouched. The
// nullable description uses Optional so `"description": null` clears it.
type UpdateTodoInput struct {
	Title       *string          `json:"title"`
	Description Optional[string] `json:"description"`
	Category    *string    `json:"category"`
	Status      *string    `json:"status"`
	Deadline    *time.Time `json:"deadline"`
	Priority    *int       `json:"priority"`
	Archived    *bool      `json:"archived"`
}

type ListResult struct {
	Items []Todo `json:"items"`
	Total int64  `json:"total"`
}

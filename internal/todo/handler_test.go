package todo

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/todo-backend/internal/identity"
)

func newTestRouter(svc Service, userID int64) http.Handler {
	h := NewHandler(svc, time.UTC)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if userID != 0 {
				req = req.WithContext(identity.ContextWithUserID(req.Context(), userID))
			}
			next.ServeHTTP(w, req)
		})
	})

	r.Route("/todos", func(r chi.Router) {
		r.Get("/", h.ListTodos)
		r.Post("/create", h.CreateTodo)
		r.Patch("/{id}", h.UpdateTodo)
		r.Delete("/{id}", h.DeleteTodo)
		r.Get("/report/daily", h.DailyReport)
		r.Get("/report/daily/export", h.ExportDailyReport)
	})

	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CreateAndList(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo(), time.Now())
	router := newTestRouter(svc, 1)

	rec := doJSON(t, router, http.MethodPost, "/todos/create", map[string]any{
		"title":    "ship the release",
		"category": "work",
		"deadline": testDeadline.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, CategoryWork, created.Category)
	assert.Equal(t, StatusBacklog, created.Status)

	rec = doJSON(t, router, http.MethodGet, "/todos/?category=work", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result ListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, created.ID, result.Items[0].ID)
}

func TestHandler_ListRejectsBadFilter(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo(), time.Now())
	router := newTestRouter(svc, 1)

	for _, path := range []string{
		"/todos/?period=yesterday",
		"/todos/?category=hobby",
		"/todos/?limit=0",
		"/todos/?offset=-3",
	} {
		rec := doJSON(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "path %s", path)
	}
}

func TestHandler_CreateValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo(), time.Now())
	router := newTestRouter(svc, 1)

	rec := doJSON(t, router, http.MethodPost, "/todos/create", map[string]any{
		"title":    "ab",
		"deadline": testDeadline.Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/todos/create", bytes.NewBufferString("{not json"))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandler_UpdateMissingIs404(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo(), time.Now())
	router := newTestRouter(svc, 1)

	rec := doJSON(t, router, http.MethodPatch, "/todos/99", map[string]any{"title": "new title"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Delete(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo(), time.Now())
	router := newTestRouter(svc, 1)

	created, err := svc.CreateTodo(context.Background(), 1, CreateTodoInput{
		Title:    "short-lived",
		Deadline: testDeadline,
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodDelete, "/todos/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok": true}`, rec.Body.String())

	rec = doJSON(t, router, http.MethodDelete, "/todos/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, err = svc.GetTodo(context.Background(), created.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHandler_OtherUsersTodoIs404(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo(), time.Now())

	_, err := svc.CreateTodo(context.Background(), 2, CreateTodoInput{
		Title:    "belongs to user 2",
		Deadline: testDeadline,
	})
	require.NoError(t, err)

	router := newTestRouter(svc, 1)

	rec := doJSON(t, router, http.MethodPatch, "/todos/1", map[string]any{"title": "grabbed"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/todos/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_DailyReportShape(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 14, 12, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeRepo(), now)
	router := newTestRouter(svc, 1)

	_, err := svc.CreateTodo(context.Background(), 1, CreateTodoInput{
		Title:    "due this evening",
		Deadline: time.Date(2026, 8, 14, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodGet, "/todos/report/daily", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string][]Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Contains(t, payload, "done_today")
	require.Contains(t, payload, "due_today")
	assert.Empty(t, payload["done_today"])
	assert.Len(t, payload["due_today"], 1)
}

func TestHandler_ExportHeaders(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 14, 12, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeRepo(), now)
	router := newTestRouter(svc, 1)

	rec := doJSON(t, router, http.MethodGet, "/todos/report/daily/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t,
		"attachment; filename=daily_report_2026-08-14.xlsx",
		rec.Header().Get("Content-Disposition"),
	)
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestHandler_Unauthenticated(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeRepo(), time.Now())
	router := newTestRouter(svc, 0) // no identity on the context

	rec := doJSON(t, router, http.MethodGet, "/todos/", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

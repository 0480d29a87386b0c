package todo

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/taskhive/todo-backend/internal/identity"
	"github.com/taskhive/todo-backend/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc       Service
	filterLoc *time.Location
}

// NewHandler wires the todo routes. filterLoc is the reference zone for the
// today/upcoming period filters.
func NewHandler(svc Service, filterLoc *time.Location) *Handler {
	return &Handler{svc: svc, filterLoc: filterLoc}
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := identity.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return 0, false
	}
	return userID, true
}

func todoIDParam(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		return 0, errors.New("missing id")
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// GET /todos/
func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	f, err := ParseListFilter(r.URL.Query(), time.Now(), h.filterLoc)
	if err != nil {
		utils.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result, err := h.svc.ListTodos(r.Context(), userID, f)
	if err != nil {
		slog.Error("list todos failed", "user_id", userID, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to list todos")
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

// POST /todos/create
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var in CreateTodoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	t, err := h.svc.CreateTodo(r.Context(), userID, in)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			utils.WriteError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("create todo failed", "user_id", userID, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to create todo")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, t)
}

// PATCH /todos/{id}
func (h *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	id, err := todoIDParam(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var in UpdateTodoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	t, err := h.svc.UpdateTodo(r.Context(), id, userID, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			utils.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, ErrNotFound):
			// ownership mismatch reads the same as absence on purpose
			utils.WriteError(w, http.StatusNotFound, "todo not found")
		default:
			slog.Error("update todo failed", "user_id", userID, "todo_id", id, "error", err)
			utils.WriteError(w, http.StatusInternalServerError, "failed to update todo")
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, t)
}

// DELETE /todos/{id}
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	id, err := todoIDParam(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.DeleteTodo(r.Context(), id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, "todo not found")
			return
		}
		slog.Error("delete todo failed", "user_id", userID, "todo_id", id, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to delete todo")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request, rt ReportType) (*Report, bool) {
	userID, ok := h.userID(w, r)
	if !ok {
		return nil, false
	}

	var (
		rep *Report
		err error
	)
	if rt == ReportDaily {
		rep, err = h.svc.DailyReport(r.Context(), userID)
	} else {
		rep, err = h.svc.WeeklyReport(r.Context(), userID)
	}
	if err != nil {
		slog.Error("build report failed", "user_id", userID, "type", rt, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to build report")
		return nil, false
	}

	return rep, true
}

// GET /todos/report/daily
func (h *Handler) DailyReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.report(w, r, ReportDaily)
	if !ok {
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"done_today": rep.Done,
		"due_today":  rep.Due,
	})
}

// GET /todos/report/weekly
func (h *Handler) WeeklyReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.report(w, r, ReportWeekly)
	if !ok {
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"done_weekly": rep.Done,
		"due_weekly":  rep.Due,
	})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request, rt ReportType) {
	rep, ok := h.report(w, r, rt)
	if !ok {
		return
	}

	f, err := BuildWorkbook(rep)
	if err != nil {
		slog.Error("build workbook failed", "type", rt, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to build export")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+ExportFilename(rep))

	if err := f.Write(w); err != nil {
		slog.Error("stream workbook failed", "type", rt, "error", err)
	}
}

// GET /todos/report/daily/export
func (h *Handler) ExportDailyReport(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, ReportDaily)
}

// GET /todos/report/weekly/export
func (h *Handler) ExportWeeklyReport(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, ReportWeekly)
}

package user

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taskhive/todo-backend/internal/identity"
	"github.com/taskhive/todo-backend/pkg/utils"
)

type Handler struct {
	svc UserService
}

func NewHandler(svc UserService) *Handler {
	return &Handler{svc: svc}
}

// PATCH /users/update
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var in UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if in.Email == nil {
		utils.WriteError(w, http.StatusUnprocessableEntity, "email is required")
		return
	}

	u, err := h.svc.UpdateEmail(r.Context(), userID, *in.Email)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			utils.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, ErrEmailUnchanged):
			utils.WriteError(w, http.StatusBadRequest, "email is already set to this value")
		case errors.Is(err, ErrEmailTaken):
			utils.WriteError(w, http.StatusConflict, "email already in use")
		case errors.Is(err, ErrNotFound):
			utils.WriteError(w, http.StatusNotFound, "user not found")
		default:
			slog.Error("update email failed", "user_id", userID, "error", err)
			utils.WriteError(w, http.StatusInternalServerError, "could not update profile")
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, ToUserDTO(u))
}

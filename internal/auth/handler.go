package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/taskhive/todo-backend/internal/user"
	"github.com/taskhive/todo-backend/pkg/utils"
)

const refreshCookieName = "refresh_token"

type Handler struct {
	userService  user.UserService
	tokenService TokenService
	refreshTTL   time.Duration
	isProd       bool
}

func NewHandler(us user.UserService, ts TokenService, refreshTTL time.Duration, isProd bool) *Handler {
	return &Handler{
		userService:  us,
		tokenService: ts,
		refreshTTL:   refreshTTL,
		isProd:       isProd,
	}
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, refresh string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refresh,
		HttpOnly: true,
		Secure:   h.isProd,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   maxAge,
	})
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	User          *user.UserDTO `json:"user"`
	AccessToken   string        `json:"access_token"`
	AccessExpires int64         `json:"access_expires"`
}

// POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	u, err := h.userService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUsernameTaken):
			utils.WriteError(w, http.StatusConflict, "username already in use")
		case errors.Is(err, user.ErrInvalidInput):
			utils.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			utils.WriteError(w, http.StatusInternalServerError, "could not register")
		}
		return
	}

	access, refresh, accessExp, err := h.tokenService.GenerateTokens(r.Context(), u.ID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "token error")
		return
	}

	h.setRefreshCookie(w, refresh, int(h.refreshTTL.Seconds()))

	utils.WriteJSON(w, http.StatusCreated, tokenResponse{
		User:          user.ToUserDTO(u),
		AccessToken:   access,
		AccessExpires: accessExp,
	})
}

// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	u, err := h.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	access, refresh, accessExp, err := h.tokenService.GenerateTokens(r.Context(), u.ID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "token error")
		return
	}

	h.setRefreshCookie(w, refresh, int(h.refreshTTL.Seconds()))

	utils.WriteJSON(w, http.StatusOK, tokenResponse{
		User:          user.ToUserDTO(u),
		AccessToken:   access,
		AccessExpires: accessExp,
	})
}

// POST /auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "missing refresh token")
		return
	}

	access, refresh, accessExp, err := h.tokenService.RefreshTokens(r.Context(), cookie.Value)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	h.setRefreshCookie(w, refresh, int(h.refreshTTL.Seconds()))

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"access_token":   access,
		"access_expires": accessExp,
	})
}

// POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		_ = h.tokenService.Revoke(r.Context(), cookie.Value)
	}

	// expire the cookie client-side regardless
	h.setRefreshCookie(w, "", -1)

	utils.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

package auth

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"todo_api/internal/httpjson"
)

type Handler struct {
	service *Service
	logger  *log.Logger
}

func NewHandler(service *Service, logger *log.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/login", h.handleLogin)
	return r
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input LoginRequest
	if err := httpjson.Decode(w, r, &input); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.service.Login(r.Context(), input)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			// 不透露是用户名还是密码错误
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		h.logger.Error("login failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	h.logger.Info("token issued", "user", input.Username)
	h.writeJSON(w, http.StatusOK, token)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	if err := httpjson.Write(w, status, v); err != nil {
		h.logger.Error("json encode error", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	if err := httpjson.Error(w, status, message); err != nil {
		h.logger.Error("json encode error", "err", err)
	}
}

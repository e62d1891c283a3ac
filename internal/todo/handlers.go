package todo

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"todo_api/internal/httpjson"
)

const msgTitleRequired = "Title cannot be empty."

type Handler struct {
	store  *Store
	logger *log.Logger
}

func NewHandler(store *Store, logger *log.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

func (h *Handler) Routes() http.Handler {
	// 注册 /todos 下的路由，认证由外层挂载时处理
	r := chi.NewRouter()
	r.Get("/", h.handleListTodos)
	r.Post("/", h.handleCreateTodo)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.handleGetTodo)
		r.Put("/", h.handleUpdateTodo)
		r.Delete("/", h.handleDeleteTodo)
	})

	return r
}

func (h *Handler) handleListTodos(w http.ResponseWriter, r *http.Request) {
	// 分页 + 过滤 + 排序
	params, err := ParseListParams(r.URL.Query())
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := params.Normalize()

	items, total, err := h.store.List(r.Context(), q)
	if err != nil {
		h.logger.Error("list todos", "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load todos")
		return
	}

	dtos := make([]DTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, item.DTO())
	}

	h.writeJSON(w, http.StatusOK, Page{
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalCount: total,
		TotalPages: TotalPages(total, q.PageSize),
		SortBy:     q.SortBy,
		SortDir:    q.SortDir,
		Items:      dtos,
	})
}

func (h *Handler) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := readIDParam(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	item, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.logger.Error("get todo", "id", id, "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load todo")
		return
	}

	h.writeJSON(w, http.StatusOK, item.DTO())
}

func (h *Handler) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var input createTodoRequest
	if err := httpjson.Decode(w, r, &input); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	title, ok := cleanTitle(input.Title)
	if !ok {
		h.writeError(w, http.StatusBadRequest, msgTitleRequired)
		return
	}

	item, err := h.store.Create(r.Context(), title)
	if err != nil {
		h.logger.Error("create todo", "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create todo")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/todos/%d", item.ID))
	h.writeJSON(w, http.StatusCreated, item.DTO())
}

func (h *Handler) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	// 先校验 title，再查找记录
	id, ok := readIDParam(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var input updateTodoRequest
	if err := httpjson.Decode(w, r, &input); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	title, ok := cleanTitle(input.Title)
	if !ok {
		h.writeError(w, http.StatusBadRequest, msgTitleRequired)
		return
	}

	if err := h.store.Update(r.Context(), id, title, input.IsCompleted); err != nil {
		if errors.Is(err, ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.logger.Error("update todo", "id", id, "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to update todo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := readIDParam(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.logger.Error("delete todo", "id", id, "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to delete todo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
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

func cleanTitle(title *string) (string, bool) {
	if title == nil {
		return "", false
	}
	trimmed := strings.TrimSpace(*title)
	return trimmed, trimmed != ""
}

func readIDParam(r *http.Request) (int64, bool) {
	// 非整数 id 等同于路由不匹配
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

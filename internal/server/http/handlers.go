package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/todophotos/internal/common"
	"github.com/dmitrijs2005/todophotos/internal/logging"
	"github.com/dmitrijs2005/todophotos/internal/server/photos"
	"github.com/dmitrijs2005/todophotos/internal/server/todos"
)

// TodoService is the registry surface used by the handlers.
type TodoService interface {
	Create(text string) (todos.Todo, error)
	List() []todos.Todo
	Get(id int64) (todos.Todo, error)
	SetCompleted(id int64, completed *bool) (todos.Todo, error)
	Count() int
}

// PhotoService is the photo manager surface used by the handlers.
type PhotoService interface {
	StorageConfigured() bool
	Attach(ctx context.Context, id int64, raw []byte, mimeType string) (photos.AttachResult, error)
	AttachOnCreate(ctx context.Context, todo todos.Todo, raw []byte, mimeType string) todos.Todo
	Detach(ctx context.Context, id int64) (todos.Todo, error)
	ResolveURL(ctx context.Context, id int64) (string, error)
	DeleteTodo(ctx context.Context, id int64) error
}

// EnvironmentInfo is reported by the health endpoint.
type EnvironmentInfo struct {
	Name              string `json:"name"`
	StorageConfigured bool   `json:"storageConfigured"`
	Bucket            string `json:"bucket,omitempty"`
}

type Handler struct {
	todos  TodoService
	photos PhotoService
	env    EnvironmentInfo
	logger logging.Logger
	now    func() time.Time
}

func NewHandler(ts TodoService, ps PhotoService, env EnvironmentInfo, l logging.Logger) *Handler {
	return &Handler{
		todos:  ts,
		photos: ps,
		env:    env,
		logger: l,
		now:    time.Now,
	}
}

type healthResponse struct {
	Status      string          `json:"status"`
	Timestamp   string          `json:"timestamp"`
	Todos       int             `json:"todos"`
	Environment EnvironmentInfo `json:"environment"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Timestamp:   h.now().UTC().Format(time.RFC3339),
		Todos:       h.todos.Count(),
		Environment: h.env,
	})
}

func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.todos.List())
}

// CreateTodo accepts multipart (text + optional photo), urlencoded or JSON
// bodies. A bad photo is rejected before the todo exists; a photo that
// fails later in the pipeline is dropped and the todo is still created.
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		text  string
		photo *upload
	)

	if isJSON(r) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, formOverhead)).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		text = req.Text
	} else {
		if err := parseForm(w, r); err != nil {
			h.writeError(w, r, err, "")
			return
		}
		text = r.FormValue(textField)

		p, err := readPhoto(r)
		if err != nil {
			h.writeError(w, r, err, "")
			return
		}
		photo = p
	}

	if photo != nil {
		if err := photos.Validate(photo.data, photo.mimeType); err != nil {
			h.writeError(w, r, err, "")
			return
		}
	}

	todo, err := h.todos.Create(text)
	if err != nil {
		h.writeError(w, r, err, "Failed to create todo")
		return
	}

	if photo != nil {
		todo = h.photos.AttachOnCreate(ctx, todo, photo.data, photo.mimeType)
	}

	writeJSON(w, http.StatusCreated, todo)
}

// UpdateTodo only touches "completed", and only when it is a JSON boolean;
// any other value leaves the todo as it is.
func (h *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := h.todoID(w, r)
	if !ok {
		return
	}

	var req struct {
		Completed any `json:"completed"`
	}
	err := json.NewDecoder(io.LimitReader(r.Body, formOverhead)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var completed *bool
	if b, isBool := req.Completed.(bool); isBool {
		completed = &b
	}

	todo, err := h.todos.SetCompleted(id, completed)
	if err != nil {
		h.writeError(w, r, err, "Failed to update todo")
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := h.todoID(w, r)
	if !ok {
		return
	}

	if err := h.photos.DeleteTodo(r.Context(), id); err != nil {
		h.writeError(w, r, err, "Failed to delete todo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type photoURLResponse struct {
	PhotoURL string `json:"photoUrl"`
}

func (h *Handler) GetPhotoURL(w http.ResponseWriter, r *http.Request) {
	id, ok := h.todoID(w, r)
	if !ok {
		return
	}

	url, err := h.photos.ResolveURL(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "Failed to generate photo URL")
		return
	}

	writeJSON(w, http.StatusOK, photoURLResponse{PhotoURL: url})
}

// UploadPhoto is the strict attach path: every failure, including a
// missing object store, is reported to the client.
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := h.todoID(w, r)
	if !ok {
		return
	}

	if _, err := h.todos.Get(id); err != nil {
		h.writeError(w, r, err, "Failed to upload photo")
		return
	}

	if err := parseForm(w, r); err != nil {
		h.writeError(w, r, err, "")
		return
	}
	photo, err := readPhoto(r)
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}
	if photo == nil {
		writeMessage(w, http.StatusBadRequest, "No photo uploaded")
		return
	}
	if err := photos.Validate(photo.data, photo.mimeType); err != nil {
		h.writeError(w, r, err, "")
		return
	}

	if !h.photos.StorageConfigured() {
		h.writeError(w, r, common.ErrNotConfigured, "Photo storage is not configured")
		return
	}

	res, err := h.photos.Attach(r.Context(), id, photo.data, photo.mimeType)
	if err != nil {
		h.writeError(w, r, err, "Failed to upload photo")
		return
	}
	if !res.Attached() {
		h.writeError(w, r, res.Reason, "Photo storage is not configured")
		return
	}

	writeJSON(w, http.StatusOK, res.Todo)
}

func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := h.todoID(w, r)
	if !ok {
		return
	}

	todo, err := h.photos.Detach(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "Failed to delete photo")
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

// todoID parses the {id} URL parameter. A non-numeric id cannot name an
// existing todo, so it is answered with 404.
func (h *Handler) todoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Todo not found")
		return 0, false
	}
	return id, true
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

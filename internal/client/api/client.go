// Package api is a thin client for the todo HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("not found")

// Todo mirrors the server's JSON shape.
type Todo struct {
	ID            int64   `json:"id"`
	Text          string  `json:"text"`
	Completed     bool    `json:"completed"`
	HasPhoto      bool    `json:"hasPhoto"`
	PhotoFilename *string `json:"photoFilename"`
}

// Health is the body of GET /api/health.
type Health struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Todos       int    `json:"todos"`
	Environment struct {
		Name              string `json:"name"`
		StorageConfigured bool   `json:"storageConfigured"`
		Bucket            string `json:"bucket"`
	} `json:"environment"`
}

// Error is a non-2xx response from the API.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Photo is a file to upload.
type Photo struct {
	Name string
	Data []byte
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/api/health", nil, "", &h)
	return h, err
}

func (c *Client) List(ctx context.Context) ([]Todo, error) {
	var todos []Todo
	err := c.do(ctx, http.MethodGet, "/api/todos", nil, "", &todos)
	return todos, err
}

// Create adds a todo; photo may be nil.
func (c *Client) Create(ctx context.Context, text string, photo *Photo) (Todo, error) {
	body, contentType, err := multipartBody(map[string]string{"text": text}, photo)
	if err != nil {
		return Todo{}, err
	}
	var t Todo
	err = c.do(ctx, http.MethodPost, "/api/todos", body, contentType, &t)
	return t, err
}

func (c *Client) SetCompleted(ctx context.Context, id int64, completed bool) (Todo, error) {
	b, err := json.Marshal(map[string]bool{"completed": completed})
	if err != nil {
		return Todo{}, err
	}
	var t Todo
	err = c.do(ctx, http.MethodPut, todoPath(id, ""), bytes.NewReader(b), "application/json", &t)
	return t, err
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, todoPath(id, ""), nil, "", nil)
}

func (c *Client) PhotoURL(ctx context.Context, id int64) (string, error) {
	var resp struct {
		PhotoURL string `json:"photoUrl"`
	}
	err := c.do(ctx, http.MethodGet, todoPath(id, "/photo"), nil, "", &resp)
	return resp.PhotoURL, err
}

func (c *Client) AttachPhoto(ctx context.Context, id int64, photo Photo) (Todo, error) {
	body, contentType, err := multipartBody(nil, &photo)
	if err != nil {
		return Todo{}, err
	}
	var t Todo
	err = c.do(ctx, http.MethodPost, todoPath(id, "/photo"), body, contentType, &t)
	return t, err
}

func (c *Client) DetachPhoto(ctx context.Context, id int64) (Todo, error) {
	var t Todo
	err := c.do(ctx, http.MethodDelete, todoPath(id, "/photo"), nil, "", &t)
	return t, err
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set(requestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func todoPath(id int64, suffix string) string {
	return fmt.Sprintf("/api/todos/%d%s", id, suffix)
}

// multipartBody encodes fields and an optional JPEG part named "photo".
func multipartBody(fields map[string]string, photo *Photo) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	if photo != nil {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename=%q`, filepath.Base(photo.Name)))
		hdr.Set("Content-Type", "image/jpeg")
		part, err := mw.CreatePart(hdr)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(photo.Data); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

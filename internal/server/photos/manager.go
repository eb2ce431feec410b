// Package photos coordinates the photo attachment lifecycle of a todo:
// upload validation, normalization, storage, signed URLs and cleanup.
//
// A todo's attachment slot moves EMPTY → LINKED on a successful attach,
// LINKED → LINKED on replace and back to EMPTY on detach or todo deletion.
// Partial failures never leave the slot pointing at a key that was not
// successfully stored.
package photos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todophotos/internal/common"
	"github.com/dmitrijs2005/todophotos/internal/logging"
	"github.com/dmitrijs2005/todophotos/internal/server/storage"
	"github.com/dmitrijs2005/todophotos/internal/server/todos"
)

const (
	// MaxPhotoSize caps raw upload bytes.
	MaxPhotoSize = 5 << 20

	// AcceptedMIMEType is the only upload type accepted.
	AcceptedMIMEType = "image/jpeg"

	storedContentType = "image/jpeg"
)

// TodoStore is the slice of the todo registry the manager needs.
type TodoStore interface {
	Get(id int64) (todos.Todo, error)
	SetPhoto(id int64, photo *todos.PhotoAttachment) (todos.Todo, error)
	Delete(id int64) error
}

// Normalizer turns raw upload bytes into the stored JPEG.
type Normalizer interface {
	Normalize(raw []byte) ([]byte, error)
}

// Recorder counts photo operations by outcome.
type Recorder interface {
	RecordPhoto(operation, outcome string)
}

type Manager struct {
	todos      TodoStore
	store      storage.ObjectStore
	normalizer Normalizer
	logger     logging.Logger
	recorder   Recorder
	urlTTL     time.Duration
	stamps     *stamper
	locks      *keyLock
}

type Option func(*Manager)

// WithURLTTL sets the lifetime of URLs returned by ResolveURL.
func WithURLTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.urlTTL = ttl
		}
	}
}

// WithClock replaces time.Now for storage key timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.stamps.now = now
	}
}

func WithRecorder(r Recorder) Option {
	return func(m *Manager) {
		if r != nil {
			m.recorder = r
		}
	}
}

func NewManager(ts TodoStore, store storage.ObjectStore, n Normalizer, l logging.Logger, opts ...Option) *Manager {
	m := &Manager{
		todos:      ts,
		store:      store,
		normalizer: n,
		logger:     l.With("module", "photos"),
		recorder:   nopRecorder{},
		urlTTL:     storage.DefaultURLTTL,
		stamps:     &stamper{now: time.Now},
		locks:      newKeyLock(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StorageConfigured reports whether photos can be stored at all.
func (m *Manager) StorageConfigured() bool {
	return m.store.IsConfigured()
}

// Validate checks an upload before anything else happens to it.
func Validate(raw []byte, mimeType string) error {
	if mimeType != AcceptedMIMEType {
		return fmt.Errorf("%w: only %s photos are accepted, got %q", common.ErrValidation, AcceptedMIMEType, mimeType)
	}
	if len(raw) == 0 {
		return fmt.Errorf("%w: photo is empty", common.ErrValidation)
	}
	if len(raw) > MaxPhotoSize {
		return fmt.Errorf("%w: photo exceeds %d bytes", common.ErrValidation, MaxPhotoSize)
	}
	return nil
}

// Key builds the storage key for a photo of todo id taken at ts.
func Key(id int64, ts time.Time) string {
	return fmt.Sprintf("todos/%d/%d.jpg", id, ts.UnixMilli())
}

// Attach normalizes raw and links it to todo id, replacing any previous
// photo. Validation, transform and storage failures are returned as
// errors; an unconfigured store yields OutcomeSkipped and a nil error.
func (m *Manager) Attach(ctx context.Context, id int64, raw []byte, mimeType string) (AttachResult, error) {

	if err := Validate(raw, mimeType); err != nil {
		return AttachResult{}, err
	}

	unlock := m.locks.lock(id)
	defer unlock()

	todo, err := m.todos.Get(id)
	if err != nil {
		return AttachResult{}, err
	}

	if !m.store.IsConfigured() {
		m.recorder.RecordPhoto("attach", "skipped")
		return AttachResult{Todo: todo, Outcome: OutcomeSkipped, Reason: common.ErrNotConfigured}, nil
	}

	optimized, err := m.normalizer.Normalize(raw)
	if err != nil {
		m.recorder.RecordPhoto("attach", "failed")
		if !errors.Is(err, common.ErrTransform) {
			err = fmt.Errorf("%w: %w", common.ErrTransform, err)
		}
		return AttachResult{Todo: todo}, err
	}

	oldDeleted := false
	if todo.Photo != nil {
		old := todo.Photo.StorageKey
		if err := m.store.Delete(ctx, old); err != nil {
			m.logger.Warn(ctx, "old photo cleanup failed", "todo_id", id, "key", old, "error", err)
			m.recorder.RecordPhoto("cleanup", "failed")
		} else {
			oldDeleted = true
		}
	}

	createdAt := m.stamps.next()
	key := Key(id, createdAt)

	if err := m.store.Put(ctx, key, optimized, storedContentType); err != nil {
		m.recorder.RecordPhoto("attach", "failed")
		if oldDeleted {
			// the previous key is gone; do not keep pointing at it
			cleared, clearErr := m.todos.SetPhoto(id, nil)
			if clearErr != nil {
				m.logger.Warn(ctx, "photo slot clear failed", "todo_id", id, "error", clearErr)
			} else {
				todo = cleared
			}
		}
		return AttachResult{Todo: todo}, storageErr(err)
	}

	updated, err := m.todos.SetPhoto(id, &todos.PhotoAttachment{StorageKey: key, CreatedAt: createdAt})
	if err != nil {
		// todo vanished under us; the new object would be an orphan
		if delErr := m.store.Delete(ctx, key); delErr != nil {
			m.logger.Warn(ctx, "orphan photo cleanup failed", "todo_id", id, "key", key, "error", delErr)
		}
		return AttachResult{}, err
	}

	m.recorder.RecordPhoto("attach", "ok")
	m.logger.Info(ctx, "photo attached", "todo_id", id, "key", key, "bytes", len(optimized))

	return AttachResult{Todo: updated, Outcome: OutcomeAttached}, nil
}

// AttachOnCreate is the lenient attach bundled into todo creation: any
// failure is logged and the todo is returned without a photo.
func (m *Manager) AttachOnCreate(ctx context.Context, todo todos.Todo, raw []byte, mimeType string) todos.Todo {
	res, err := m.Attach(ctx, todo.ID, raw, mimeType)
	if err != nil {
		m.logger.Warn(ctx, "todo created without photo", "todo_id", todo.ID, "error", err)
		if current, getErr := m.todos.Get(todo.ID); getErr == nil {
			return current
		}
		return todo
	}
	if !res.Attached() {
		m.logger.Info(ctx, "photo storage not configured, todo created without photo", "todo_id", todo.ID)
	}
	return res.Todo
}

// Detach unlinks the photo of todo id. The slot is always cleared once an
// attachment exists; a failed store delete is only logged.
func (m *Manager) Detach(ctx context.Context, id int64) (todos.Todo, error) {

	unlock := m.locks.lock(id)
	defer unlock()

	todo, err := m.todos.Get(id)
	if err != nil {
		return todos.Todo{}, err
	}
	if todo.Photo == nil {
		return todos.Todo{}, fmt.Errorf("todo %d has no photo: %w", id, common.ErrNotFound)
	}

	m.deleteObject(ctx, "detach", id, todo.Photo.StorageKey)

	updated, err := m.todos.SetPhoto(id, nil)
	if err != nil {
		return todos.Todo{}, err
	}

	m.recorder.RecordPhoto("detach", "ok")
	return updated, nil
}

// ResolveURL returns a time-limited read URL for the photo of todo id.
func (m *Manager) ResolveURL(ctx context.Context, id int64) (string, error) {

	todo, err := m.todos.Get(id)
	if err != nil {
		return "", err
	}
	if todo.Photo == nil {
		return "", fmt.Errorf("todo %d has no photo: %w", id, common.ErrNotFound)
	}
	if !m.store.IsConfigured() {
		return "", fmt.Errorf("%w: %w", common.ErrStorage, common.ErrNotConfigured)
	}

	url, err := m.store.SignedReadURL(ctx, todo.Photo.StorageKey, m.urlTTL)
	if err != nil {
		m.recorder.RecordPhoto("resolve", "failed")
		return "", storageErr(err)
	}

	m.recorder.RecordPhoto("resolve", "ok")
	return url, nil
}

// OnTodoDeleted removes the todo's photo object, if any. Failures are
// logged and swallowed; deleting a todo never depends on the store.
func (m *Manager) OnTodoDeleted(ctx context.Context, todo todos.Todo) {
	if todo.Photo == nil {
		return
	}
	m.deleteObject(ctx, "cleanup", todo.ID, todo.Photo.StorageKey)
}

// DeleteTodo removes todo id, cleaning up its photo first.
func (m *Manager) DeleteTodo(ctx context.Context, id int64) error {

	unlock := m.locks.lock(id)
	defer unlock()

	todo, err := m.todos.Get(id)
	if err != nil {
		return err
	}

	m.OnTodoDeleted(ctx, todo)

	return m.todos.Delete(id)
}

// deleteObject is the tolerant delete shared by detach and cleanup. An
// unconfigured store means the object is already absent.
func (m *Manager) deleteObject(ctx context.Context, op string, id int64, key string) {
	err := m.store.Delete(ctx, key)
	switch {
	case err == nil:
		m.logger.Debug(ctx, "photo object deleted", "todo_id", id, "key", key)
	case errors.Is(err, common.ErrNotConfigured):
		m.logger.Debug(ctx, "photo storage not configured, nothing to delete", "todo_id", id, "key", key)
	default:
		m.logger.Warn(ctx, "photo object delete failed", "op", op, "todo_id", id, "key", key, "error", err)
		m.recorder.RecordPhoto(op, "failed")
	}
}

func storageErr(err error) error {
	if errors.Is(err, common.ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrStorage, err)
}

type nopRecorder struct{}

func (nopRecorder) RecordPhoto(string, string) {}

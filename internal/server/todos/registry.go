// Package todos holds the in-memory todo registry. Records live only for
// the lifetime of the process.
package todos

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/todophotos/internal/common"
)

// Registry is the process-scoped collection of todos. Ids are assigned
// from a counter that only moves forward, so a deleted id is never reused.
//
// All methods are safe for concurrent use and hand out copies; mutating a
// returned Todo never affects the registry.
type Registry struct {
	mu     sync.RWMutex
	items  []*Todo
	nextID int64
}

// NewRegistry returns a registry seeded with one todo per non-blank text.
func NewRegistry(seed ...string) *Registry {
	r := &Registry{nextID: 1}
	for _, text := range seed {
		_, _ = r.Create(text)
	}
	return r
}

// Create appends a new todo with the trimmed text.
func (r *Registry) Create(text string) (Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Todo{}, fmt.Errorf("%w: text is required", common.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t := &Todo{ID: r.nextID, Text: text}
	r.nextID++
	r.items = append(r.items, t)

	return t.clone(), nil
}

// List returns every todo in insertion order.
func (r *Registry) List() []Todo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Todo, 0, len(r.items))
	for _, t := range r.items {
		out = append(out, t.clone())
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *Registry) Get(id int64) (Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return Todo{}, notFound(id)
	}
	return r.items[i].clone(), nil
}

// SetCompleted updates the completed flag. A nil value leaves the todo
// untouched and is not an error: requests whose "completed" field is
// missing or not a boolean are accepted as no-ops.
func (r *Registry) SetCompleted(id int64, completed *bool) (Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return Todo{}, notFound(id)
	}
	if completed != nil {
		r.items[i].Completed = *completed
	}
	return r.items[i].clone(), nil
}

// SetPhoto replaces the todo's attachment slot; nil empties it.
func (r *Registry) SetPhoto(id int64, photo *PhotoAttachment) (Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return Todo{}, notFound(id)
	}
	if photo != nil {
		p := *photo
		photo = &p
	}
	r.items[i].Photo = photo
	return r.items[i].clone(), nil
}

// Delete removes the todo. Object-store cleanup for its photo is the
// caller's job and must happen before this call.
func (r *Registry) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return notFound(id)
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

// indexOf must be called with mu held.
func (r *Registry) indexOf(id int64) int {
	for i, t := range r.items {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func notFound(id int64) error {
	return fmt.Errorf("todo %d: %w", id, common.ErrNotFound)
}

package todos

import (
	"encoding/json"
	"time"
)

// PhotoAttachment links a todo to its normalized photo in the object store.
// StorageKey is the only durable handle; the bytes live in the store.
type PhotoAttachment struct {
	StorageKey string
	CreatedAt  time.Time
}

// Todo is one task. Photo is nil when no attachment is linked.
type Todo struct {
	ID        int64
	Text      string
	Completed bool
	Photo     *PhotoAttachment
}

// HasPhoto reports whether a photo attachment is linked.
func (t Todo) HasPhoto() bool {
	return t.Photo != nil
}

// todoJSON is the wire shape served by the HTTP API.
type todoJSON struct {
	ID            int64   `json:"id"`
	Text          string  `json:"text"`
	Completed     bool    `json:"completed"`
	HasPhoto      bool    `json:"hasPhoto"`
	PhotoFilename *string `json:"photoFilename"`
}

func (t Todo) MarshalJSON() ([]byte, error) {
	out := todoJSON{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		HasPhoto:  t.HasPhoto(),
	}
	if t.Photo != nil {
		key := t.Photo.StorageKey
		out.PhotoFilename = &key
	}
	return json.Marshal(out)
}

// clone returns a copy that shares no pointers with t.
func (t Todo) clone() Todo {
	if t.Photo != nil {
		p := *t.Photo
		t.Photo = &p
	}
	return t
}

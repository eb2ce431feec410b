package photos

import "github.com/dmitrijs2005/todophotos/internal/server/todos"

// Outcome tells the caller of Attach whether the photo was linked. A
// returned error always means "abort"; an Outcome is only meaningful when
// the error is nil.
type Outcome int

const (
	// OutcomeAttached: the photo is stored and linked to the todo.
	OutcomeAttached Outcome = iota + 1
	// OutcomeSkipped: the object store is not configured. The todo is
	// unchanged and the caller may carry on without a photo.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAttached:
		return "attached"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// AttachResult is the non-error result of Attach.
type AttachResult struct {
	Todo    todos.Todo
	Outcome Outcome
	// Reason explains a skipped attach (common.ErrNotConfigured).
	Reason error
}

func (r AttachResult) Attached() bool {
	return r.Outcome == OutcomeAttached
}

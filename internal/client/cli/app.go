// Package cli is an interactive shell over the todo API.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/todophotos/internal/client/api"
	"github.com/dmitrijs2005/todophotos/internal/client/config"
)

// TodoAPI is the part of api.Client the shell uses.
type TodoAPI interface {
	List(ctx context.Context) ([]api.Todo, error)
	Create(ctx context.Context, text string, photo *api.Photo) (api.Todo, error)
	SetCompleted(ctx context.Context, id int64, completed bool) (api.Todo, error)
	Delete(ctx context.Context, id int64) error
	PhotoURL(ctx context.Context, id int64) (string, error)
	AttachPhoto(ctx context.Context, id int64, photo api.Photo) (api.Todo, error)
	DetachPhoto(ctx context.Context, id int64) (api.Todo, error)
}

type HealthChecker interface {
	Check(ctx context.Context, service string) (string, error)
}

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

type App struct {
	todos      TodoAPI
	health     HealthChecker
	reader     *bufio.Reader
	out        io.Writer
	showPrompt bool
}

func NewApp(c *config.Config) (*App, error) {
	hc, err := api.NewHealthClient(c.HealthAddr, c.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("health client: %w", err)
	}

	return &App{
		todos:      api.NewClient(c.ServerURL, c.RequestTimeout),
		health:     hc,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		showPrompt: interactive(),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	if a.showPrompt {
		fmt.Fprintln(a.out, "Todo client (type 'help' for commands)")
	}
	runREPL(ctx, a, a.prompt, a.reader)
}

func (a *App) prompt() string {
	if !a.showPrompt {
		return ""
	}
	return "todos> "
}

func (a *App) List(ctx context.Context, _ []string) error {
	todos, err := a.todos.List(ctx)
	if err != nil {
		return a.fail(err)
	}
	if len(todos) == 0 {
		fmt.Fprintln(a.out, "No todos")
		return nil
	}
	for _, t := range todos {
		fmt.Fprintln(a.out, formatTodo(t))
	}
	return nil
}

// Add creates a todo from args, prompting for the text and an optional
// photo path when no args are given.
func (a *App) Add(ctx context.Context, args []string) error {
	text := strings.Join(args, " ")
	var photo *api.Photo

	if text == "" {
		var err error
		if text, err = GetSimpleText(a.reader, "Todo text", a.out, a.showPrompt); err != nil {
			return err
		}
		path, err := GetSimpleText(a.reader, "Photo path (empty for none)", a.out, a.showPrompt)
		if err != nil {
			return err
		}
		if path != "" {
			p, err := loadPhoto(path)
			if err != nil {
				return a.fail(err)
			}
			photo = &p
		}
	}

	t, err := a.todos.Create(ctx, text, photo)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Created", formatTodo(t))
	if photo != nil && !t.HasPhoto {
		fmt.Fprintln(a.out, "Photo was not attached")
	}
	return nil
}

func (a *App) Complete(ctx context.Context, args []string) error {
	return a.setCompleted(ctx, args, true)
}

func (a *App) Reopen(ctx context.Context, args []string) error {
	return a.setCompleted(ctx, args, false)
}

func (a *App) setCompleted(ctx context.Context, args []string, completed bool) error {
	id, err := a.idArg(args)
	if err != nil {
		return err
	}
	t, err := a.todos.SetCompleted(ctx, id, completed)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, formatTodo(t))
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	id, err := a.idArg(args)
	if err != nil {
		return err
	}
	if err := a.todos.Delete(ctx, id); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Deleted", id)
	return nil
}

func (a *App) ShowPhoto(ctx context.Context, args []string) error {
	id, err := a.idArg(args)
	if err != nil {
		return err
	}
	url, err := a.todos.PhotoURL(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, url)
	return nil
}

func (a *App) Attach(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return a.fail(fmt.Errorf("usage: attach <id> <path>"))
	}
	id, err := a.idArg(args)
	if err != nil {
		return err
	}
	photo, err := loadPhoto(args[1])
	if err != nil {
		return a.fail(err)
	}
	t, err := a.todos.AttachPhoto(ctx, id, photo)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, formatTodo(t))
	return nil
}

func (a *App) Detach(ctx context.Context, args []string) error {
	id, err := a.idArg(args)
	if err != nil {
		return err
	}
	t, err := a.todos.DetachPhoto(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, formatTodo(t))
	return nil
}

func (a *App) Health(ctx context.Context, _ []string) error {
	server, err := a.health.Check(ctx, "")
	if err != nil {
		return a.fail(err)
	}
	photos, err := a.health.Check(ctx, api.PhotosService)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "server: %s, photos: %s\n", server, photos)
	return nil
}

func (a *App) idArg(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, a.fail(fmt.Errorf("todo id required"))
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, a.fail(fmt.Errorf("invalid todo id %q", args[0]))
	}
	return id, nil
}

func (a *App) fail(err error) error {
	fmt.Fprintln(a.out, "Error:", err)
	return err
}

func loadPhoto(path string) (api.Photo, error) {
	data, err := readFile(path)
	if err != nil {
		return api.Photo{}, fmt.Errorf("read photo: %w", err)
	}
	return api.Photo{Name: path, Data: data}, nil
}

func formatTodo(t api.Todo) string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	s := fmt.Sprintf("[%s] %d. %s", mark, t.ID, t.Text)
	if t.PhotoFilename != nil {
		s += " (photo: " + *t.PhotoFilename + ")"
	}
	return s
}

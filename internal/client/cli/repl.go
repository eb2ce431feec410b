package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printFn is a test seam for prompt output.
var printFn = fmt.Print

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	List(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Complete(ctx context.Context, args []string) error
	Reopen(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	ShowPhoto(ctx context.Context, args []string) error
	Attach(ctx context.Context, args []string) error
	Detach(ctx context.Context, args []string) error
	Health(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  (l)ist                 list todos
  add [text]             create a todo (prompts for text and photo when empty)
  done <id>              mark completed
  undo <id>              mark not completed
  rm <id>                delete a todo and its photo
  photo <id>             print a temporary photo URL
  attach <id> <path>     attach or replace a JPEG photo
  detach <id>            remove the photo
  health                 query the gRPC health endpoint
  exit | quit            leave`

// runREPL reads one command per line and dispatches it to a. Command errors
// are reported by the commands themselves; the loop ends on EOF or exit.
func runREPL(ctx context.Context, a execIface, promptFn func() string, reader *bufio.Reader) {
	for {
		if p := promptFn(); p != "" {
			printFn(p)
		}

		line, err := ReadLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printFn(helpText + "\n")
		case "l", "list":
			_ = a.List(ctx, args)
		case "add":
			_ = a.Add(ctx, args)
		case "done":
			_ = a.Complete(ctx, args)
		case "undo":
			_ = a.Reopen(ctx, args)
		case "rm", "delete":
			_ = a.Remove(ctx, args)
		case "photo":
			_ = a.ShowPhoto(ctx, args)
		case "attach":
			_ = a.Attach(ctx, args)
		case "detach":
			_ = a.Detach(ctx, args)
		case "health":
			_ = a.Health(ctx, args)
		case "exit", "quit":
			printFn("Bye!\n")
			return
		default:
			printFn(fmt.Sprintf("Unknown command: %s\n", cmd))
		}
	}
}

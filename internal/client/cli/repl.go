package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophtodo/internal/apperror"
)

// printlnFn is a test seam for REPL output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	onDashboard() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Refresh(ctx context.Context) error
	Health(ctx context.Context) error

	List(ctx context.Context) error
	Completed(ctx context.Context) error
	Pending(ctx context.Context) error
	Stats(ctx context.Context) error
	Sync(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Toggle(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
}

const (
	helpLogin     = "Available commands: register, login, whoami, refresh, health, exit"
	helpDashboard = "Available commands: (l)ist, add [title], edit <id>, done <id>, rm <id>, show <id>, completed, pending, stats, sync, whoami, refresh, health, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the todo CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit". Command errors are printed with their user-facing
// message and never end the loop.
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Login / register view:
//	  - help            show available commands
//	  - register        create an account
//	  - login           authenticate
//	  - whoami          show the current session
//	  - refresh         exchange the refresh token for a new session
//	  - health          probe the backend
//	  - exit | quit     leave the program
//
//	Dashboard:
//	  - list | l        load and list tasks
//	  - add [title]     add a task
//	  - edit <id>       change title or description
//	  - done <id>       toggle completion
//	  - rm <id>         delete a task
//	  - show <id>       show a single task
//	  - completed       list completed tasks
//	  - pending         list pending tasks
//	  - stats           task counts
//	  - sync            reload tasks
//	  - logout          log out
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("todo %s> ", statusFn()))
		line, err := readLine(reader)
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
			if a.onDashboard() {
				printlnFn(helpDashboard)
			} else {
				printlnFn(helpLogin)
			}

		case "register":
			report(a.Register(ctx))
		case "login":
			report(a.Login(ctx))
		case "logout":
			report(a.Logout(ctx))
		case "whoami":
			report(a.Whoami(ctx))
		case "refresh":
			report(a.Refresh(ctx))
		case "health":
			report(a.Health(ctx))

		case "l", "list":
			report(a.List(ctx))
		case "completed":
			report(a.Completed(ctx))
		case "pending":
			report(a.Pending(ctx))
		case "stats":
			report(a.Stats(ctx))
		case "sync":
			report(a.Sync(ctx))
		case "add":
			report(a.Add(ctx, args))
		case "edit":
			report(a.Edit(ctx, args))
		case "done", "toggle":
			report(a.Toggle(ctx, args))
		case "rm", "delete":
			report(a.Remove(ctx, args))
		case "show":
			report(a.Show(ctx, args))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", apperror.Message(err, err.Error()))
	}
}

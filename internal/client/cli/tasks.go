package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophtodo/internal/apperror"
	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/client/services"
)

// MsgLoginRequired is shown when a dashboard command is refused.
const MsgLoginRequired = "please log in first"

// requireDashboard consults the guard before a task command.
func (a *App) requireDashboard() error {
	if !a.activate(services.ViewDashboard) {
		return apperror.New(apperror.ErrUnauthorized, MsgLoginRequired)
	}
	return nil
}

// List loads the collection and prints it. When loading fails the last
// known collection is still printed.
func (a *App) List(ctx context.Context) error {
	if err := a.requireDashboard(); err != nil {
		return err
	}
	tasks, err := a.tasks.List(ctx)
	printTasks(a.out, tasks)
	return err
}

func (a *App) Sync(ctx context.Context) error {
	if err := a.requireDashboard(); err != nil {
		return err
	}
	tasks, err := a.tasks.Sync(ctx)
	if err != nil {
		return err
	}
	a.println("Synced", len(tasks), "tasks")
	return nil
}

// Completed lists completed tasks from the cached collection.
func (a *App) Completed(ctx context.Context) error {
	if err := a.loadCache(ctx); err != nil {
		return err
	}
	printTasks(a.out, a.tasks.Completed())
	return nil
}

// Pending lists open tasks from the cached collection.
func (a *App) Pending(ctx context.Context) error {
	if err := a.loadCache(ctx); err != nil {
		return err
	}
	printTasks(a.out, a.tasks.Pending())
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	if err := a.loadCache(ctx); err != nil {
		return err
	}
	printCounts(a.out, a.tasks.Counts())
	return nil
}

// Add creates a task. The title comes from args or, when none are given,
// from a prompt.
func (a *App) Add(ctx context.Context, args []string) error {
	if err := a.requireDashboard(); err != nil {
		return err
	}

	title := strings.Join(args, " ")
	if title == "" {
		var err error
		if title, err = getSimpleText(a.reader, "Enter title", a.out); err != nil {
			return err
		}
	}
	description, err := getMultiline(a.reader, "Enter description (optional)", a.out)
	if err != nil {
		return err
	}

	t, err := a.tasks.Add(ctx, title, description)
	if err != nil {
		return err
	}
	a.println("Added task", formatID(t.ID))
	return nil
}

// Edit changes the title and description of a task. An empty answer keeps
// the current value; "-" clears the description.
func (a *App) Edit(ctx context.Context, args []string) error {
	if err := a.requireDashboard(); err != nil {
		return err
	}
	id, err := parseID("edit", args)
	if err != nil {
		return err
	}
	cur, ok := a.tasks.Get(ctx, id)
	if !ok {
		return apperror.NotFound("task", id)
	}

	var patch models.TaskPatch
	title, err := getSimpleText(a.reader, "Title ["+cur.Title+"]", a.out)
	if err != nil {
		return err
	}
	if title != "" {
		patch.Title = &title
	}
	description, err := getSimpleText(a.reader, "Description ["+cur.Description+"] (- to clear)", a.out)
	if err != nil {
		return err
	}
	switch description {
	case "":
	case "-":
		empty := ""
		patch.Description = &empty
	default:
		patch.Description = &description
	}

	if patch.Title == nil && patch.Description == nil {
		a.println("Nothing to change")
		return nil
	}
	t, err := a.tasks.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	a.println("Updated task", formatID(t.ID))
	return nil
}

// Toggle flips the completion state of a task.
func (a *App) Toggle(ctx context.Context, args []string) error {
	if err := a.requireDashboard(); err != nil {
		return err
	}
	id, err := parseID("done", args)
	if err != nil {
		return err
	}
	if err := a.loadCache(ctx); err != nil {
		return err
	}

	t, err := a.tasks.ToggleCompletion(ctx, id)
	if err != nil {
		return err
	}
	if t.Completed {
		a.println("Task", formatID(t.ID), "completed")
	} else {
		a.println("Task", formatID(t.ID), "reopened")
	}
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	if err := a.requireDashboard(); err != nil {
		return err
	}
	id, err := parseID("rm", args)
	if err != nil {
		return err
	}
	if err := a.tasks.Delete(ctx, id); err != nil {
		return err
	}
	a.println("Deleted task", formatID(id))
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if err := a.requireDashboard(); err != nil {
		return err
	}
	id, err := parseID("show", args)
	if err != nil {
		return err
	}
	t, ok := a.tasks.Get(ctx, id)
	if !ok {
		return apperror.NotFound("task", id)
	}
	printTask(a.out, *t)
	return nil
}

// loadCache makes sure the collection has been loaded once before it is
// read from the cache.
func (a *App) loadCache(ctx context.Context) error {
	if err := a.requireDashboard(); err != nil {
		return err
	}
	if a.tasks.Mode() != "none" {
		return nil
	}
	_, err := a.tasks.List(ctx)
	return err
}

func parseID(cmd string, args []string) (int64, error) {
	if len(args) == 0 {
		return 0, apperror.ValidationFailed("id", "usage: "+cmd+" <id>")
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil {
		return 0, apperror.ValidationFailed("id", "invalid task id: "+args[0])
	}
	return id, nil
}

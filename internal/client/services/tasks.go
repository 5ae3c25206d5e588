package services

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/apperror"
	"github.com/dmitrijs2005/gophtodo/internal/client/api"
	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/client/storage"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/observable"
)

// KeyLocalTasks is the storage key of the anonymous task collection.
const KeyLocalTasks = "local_tasks"

// Session is what the task store needs from the session manager.
type Session interface {
	IsAuthenticated() bool
	Users() *observable.Value[*models.User]
}

// source tells what the published collection currently holds.
type source int

const (
	sourceNone source = iota
	sourceLocal
	sourceRemote
)

func (s source) String() string {
	switch s {
	case sourceLocal:
		return "local"
	case sourceRemote:
		return "remote"
	}
	return "none"
}

// TaskStore holds the one authoritative task collection: the local fallback
// list while anonymous, the last server snapshot while authenticated. The
// two are never merged.
type TaskStore struct {
	api     api.Client
	session Session
	kv      *storage.Store
	log     logging.Logger
	now     func() time.Time

	mu     sync.Mutex // guards src, local, lastID and read-modify-publish of tasks
	src    source
	local  []models.Task // anonymous collection once loaded; kv is written through
	lastID int64
	tasks  *observable.Value[[]models.Task]

	unsubscribe func()
}

type TaskStoreOption func(*TaskStore)

// WithTaskClock replaces the clock used for local timestamps and ids.
func WithTaskClock(now func() time.Time) TaskStoreOption {
	return func(s *TaskStore) { s.now = now }
}

func NewTaskStore(client api.Client, session Session, kv *storage.Store, log logging.Logger, opts ...TaskStoreOption) *TaskStore {
	s := &TaskStore{
		api:     client,
		session: session,
		kv:      kv,
		log:     log.With("component", "tasks"),
		now:     time.Now,
		tasks:   observable.New([]models.Task{}),
	}
	for _, o := range opts {
		o(s)
	}

	// A different (or no) user invalidates whatever the collection holds;
	// the next call reloads from the right source.
	s.unsubscribe = session.Users().Subscribe(func(u *models.User) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.resetLocked(u == nil)
	})
	return s
}

// resetLocked drops the published collection after a user change. Signing
// out brings back the anonymous collection if it was loaded before.
func (s *TaskStore) resetLocked(anonymous bool) {
	prev := s.src
	s.src = sourceNone
	if anonymous && s.local != nil {
		s.src = sourceLocal
		s.tasks.Set(slices.Clone(s.local))
		return
	}
	if prev != sourceNone {
		s.tasks.Set([]models.Task{})
	}
}

// Close detaches the store from the session.
func (s *TaskStore) Close() {
	s.unsubscribe()
}

// Tasks publishes the collection.
func (s *TaskStore) Tasks() *observable.Value[[]models.Task] { return s.tasks }

// Mode returns "local", "remote" or "none" for what the collection holds.
func (s *TaskStore) Mode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.String()
}

// List returns the collection. While authenticated it is refetched; on
// failure the last known collection is returned along with the error.
func (s *TaskStore) List(ctx context.Context) ([]models.Task, error) {
	if !s.session.IsAuthenticated() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.ensureLocalLocked(ctx)
		return slices.Clone(s.tasks.Get()), nil
	}

	if err := s.fetch(ctx); err != nil {
		s.log.Error(ctx, "loading tasks failed", "error", err)
		return slices.Clone(s.tasks.Get()), err
	}
	return slices.Clone(s.tasks.Get()), nil
}

// Sync is List under the name the UI uses for an explicit refresh.
func (s *TaskStore) Sync(ctx context.Context) ([]models.Task, error) {
	return s.List(ctx)
}

// Get returns a single task. While authenticated it asks the server; a
// failure is logged and reported as not found.
func (s *TaskStore) Get(ctx context.Context, id int64) (*models.Task, bool) {
	if !s.session.IsAuthenticated() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.ensureLocalLocked(ctx)
		if i := indexOf(s.tasks.Get(), id); i >= 0 {
			t := s.tasks.Get()[i]
			return &t, true
		}
		return nil, false
	}

	t, err := s.api.GetTask(ctx, id)
	if err != nil {
		s.log.Error(ctx, "loading task failed", "id", id, "error", err)
		return nil, false
	}
	return t, true
}

// Add creates a task. The title is trimmed and must not be empty.
func (s *TaskStore) Add(ctx context.Context, title, description string) (*models.Task, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}
	description = strings.TrimSpace(description)

	if !s.session.IsAuthenticated() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.ensureLocalLocked(ctx)

		now := s.now()
		t := models.Task{
			ID:          s.nextIDLocked(now),
			Title:       title,
			Description: description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		s.publishLocalLocked(ctx, append(slices.Clone(s.tasks.Get()), t))
		return &t, nil
	}

	t, err := s.api.CreateTask(ctx, models.NewTask{Title: title, Description: description})
	if err != nil {
		s.log.Error(ctx, "creating task failed", "error", err)
		return nil, err
	}

	s.reconcile(ctx, func(cur []models.Task) []models.Task {
		return append(slices.Clone(cur), *t)
	})
	return t, nil
}

// Update merges patch into the task with id. A missing task is an
// apperror.ErrNotFound error while anonymous.
func (s *TaskStore) Update(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error) {
	if patch.Title != nil {
		title, err := normalizeTitle(*patch.Title)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	if patch.Description != nil {
		d := strings.TrimSpace(*patch.Description)
		patch.Description = &d
	}

	if !s.session.IsAuthenticated() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.ensureLocalLocked(ctx)

		cur := s.tasks.Get()
		i := indexOf(cur, id)
		if i < 0 {
			return nil, apperror.NotFound("task", id)
		}
		next := slices.Clone(cur)
		next[i] = patch.Apply(cur[i], s.now())
		s.publishLocalLocked(ctx, next)
		t := next[i]
		return &t, nil
	}

	t, err := s.api.UpdateTask(ctx, id, patch)
	if err != nil {
		s.log.Error(ctx, "updating task failed", "id", id, "error", err)
		return nil, err
	}

	s.reconcile(ctx, func(cur []models.Task) []models.Task {
		next := slices.Clone(cur)
		if i := indexOf(next, id); i >= 0 {
			next[i] = *t
		}
		return next
	})
	return t, nil
}

// Delete removes the task with id. Deleting a missing task locally is a
// no-op.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	if !s.session.IsAuthenticated() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.ensureLocalLocked(ctx)
		s.publishLocalLocked(ctx, without(s.tasks.Get(), id))
		return nil
	}

	if err := s.api.DeleteTask(ctx, id); err != nil {
		s.log.Error(ctx, "deleting task failed", "id", id, "error", err)
		return err
	}

	s.reconcile(ctx, func(cur []models.Task) []models.Task {
		return without(cur, id)
	})
	return nil
}

// ToggleCompletion flips the completed flag of a cached task. The current
// flag is read from the collection held in memory, not from the server.
func (s *TaskStore) ToggleCompletion(ctx context.Context, id int64) (*models.Task, error) {
	authenticated := s.session.IsAuthenticated()

	s.mu.Lock()
	if !authenticated {
		s.ensureLocalLocked(ctx)
	}
	cur := s.tasks.Get()
	i := indexOf(cur, id)
	if i < 0 {
		s.mu.Unlock()
		return nil, apperror.NotFound("task", id)
	}
	completed := !cur[i].Completed
	s.mu.Unlock()

	patch := models.TaskPatch{Completed: &completed}
	if completed {
		now := s.now()
		patch.CompletedAt = &now
	} else {
		patch.ClearCompletedAt = true
	}
	return s.Update(ctx, id, patch)
}

// Completed returns the completed tasks of the cached collection.
func (s *TaskStore) Completed() []models.Task {
	return models.FilterTasks(s.tasks.Get(), true)
}

// Pending returns the open tasks of the cached collection.
func (s *TaskStore) Pending() []models.Task {
	return models.FilterTasks(s.tasks.Get(), false)
}

// Counts summarizes the cached collection.
func (s *TaskStore) Counts() models.Counts {
	return models.CountTasks(s.tasks.Get())
}

// fetch replaces the collection with the server's.
func (s *TaskStore) fetch(ctx context.Context) error {
	tasks, err := s.api.ListTasks(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.src = sourceRemote
	s.tasks.Set(tasks)
	s.log.Debug(ctx, "tasks loaded", "count", len(tasks))
	return nil
}

// reconcile applies a successful remote mutation to the server snapshot.
// Without a snapshot the collection is refetched; a failed refetch only
// leaves the collection as it was.
func (s *TaskStore) reconcile(ctx context.Context, apply func([]models.Task) []models.Task) {
	s.mu.Lock()
	if s.src == sourceRemote {
		s.tasks.Set(apply(s.tasks.Get()))
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if err := s.fetch(ctx); err != nil {
		s.log.Warn(ctx, "reloading tasks failed", "error", err)
	}
}

func (s *TaskStore) ensureLocalLocked(ctx context.Context) {
	if s.src == sourceLocal {
		return
	}
	if s.local != nil {
		s.src = sourceLocal
		s.tasks.Set(slices.Clone(s.local))
		return
	}

	var tasks []models.Task
	if !s.kv.GetJSON(ctx, KeyLocalTasks, &tasks) {
		tasks = exampleTasks(s.now())
		s.kv.PutJSON(ctx, KeyLocalTasks, tasks)
		s.log.Debug(ctx, "seeded local tasks")
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	for _, t := range tasks {
		s.lastID = max(s.lastID, t.ID)
	}

	s.src = sourceLocal
	s.local = tasks
	s.tasks.Set(slices.Clone(tasks))
}

func (s *TaskStore) publishLocalLocked(ctx context.Context, tasks []models.Task) {
	s.local = tasks
	s.tasks.Set(slices.Clone(tasks))
	s.kv.PutJSON(ctx, KeyLocalTasks, tasks)
}

// nextIDLocked derives a local id from the clock, bumped past every id
// handed out or loaded so far.
func (s *TaskStore) nextIDLocked(now time.Time) int64 {
	s.lastID = max(now.UnixMilli(), s.lastID+1)
	return s.lastID
}

func indexOf(tasks []models.Task, id int64) int {
	return slices.IndexFunc(tasks, func(t models.Task) bool { return t.ID == id })
}

func without(tasks []models.Task, id int64) []models.Task {
	return slices.DeleteFunc(slices.Clone(tasks), func(t models.Task) bool { return t.ID == id })
}

// exampleTasks is the onboarding collection shown on first use.
func exampleTasks(now time.Time) []models.Task {
	return []models.Task{
		{
			ID:          1,
			Title:       "Welcome to the Todo App!",
			Description: "This is an example task. You can edit it, mark it as completed or delete it.",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          2,
			Title:       "Create a new task",
			Description: "Use the add command to create your own tasks.",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          3,
			Title:       "Mark a task as completed",
			Description: "Use the done command to mark a task as completed.",
			Completed:   true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

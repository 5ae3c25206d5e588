package tasks

import (
	"context"
	"slices"
	"sync"
)

// MemoryRepository keeps tasks in process memory. Ids are global so a task
// id never identifies tasks of two users.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	byUser map[int64][]Task
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byUser: map[int64][]Task{}}
}

func (r *MemoryRepository) List(_ context.Context, userID int64) ([]Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := slices.Clone(r.byUser[userID])
	if out == nil {
		out = []Task{}
	}
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, userID, id int64) (*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.byUser[userID] {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) Create(_ context.Context, task *Task) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t := *task
	t.ID = r.nextID
	r.byUser[t.UserID] = append(r.byUser[t.UserID], t)
	return &t, nil
}

func (r *MemoryRepository) Update(_ context.Context, task *Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byUser[task.UserID]
	i := slices.IndexFunc(list, func(t Task) bool { return t.ID == task.ID })
	if i < 0 {
		return ErrNotFound
	}
	list[i] = *task
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byUser[userID]
	i := slices.IndexFunc(list, func(t Task) bool { return t.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	r.byUser[userID] = slices.Delete(list, i, i+1)
	return nil
}

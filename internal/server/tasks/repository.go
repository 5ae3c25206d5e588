package tasks

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("task not found")

type Repository interface {
	// List returns the user's tasks in creation order.
	List(ctx context.Context, userID int64) ([]Task, error)
	Get(ctx context.Context, userID, id int64) (*Task, error)
	Create(ctx context.Context, task *Task) (*Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, userID, id int64) error
}

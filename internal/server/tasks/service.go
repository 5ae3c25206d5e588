package tasks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/apperror"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context, userID int64) ([]Task, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*Task, error) {
	t, err := s.repo.Get(ctx, userID, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperror.NotFound("task", id)
	}
	return t, err
}

func (s *Service) Create(ctx context.Context, userID int64, in NewTask) (*Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "Title is required")
	}

	now := s.now().UTC()
	return s.repo.Create(ctx, &Task{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// Update applies patch to the task. Completing a task without an explicit
// completedAt stamps the current time; reopening it clears the stamp.
func (s *Service) Update(ctx context.Context, userID, id int64, patch Patch) (*Task, error) {
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "Title is required")
		}
		t.Title = title
	}
	if patch.Description != nil {
		t.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
		if !t.Completed {
			t.CompletedAt = nil
		} else if t.CompletedAt == nil && patch.CompletedAt == nil {
			t.CompletedAt = &now
		}
	}
	switch {
	case patch.ClearCompletedAt:
		t.CompletedAt = nil
	case patch.CompletedAt != nil:
		at := patch.CompletedAt.UTC()
		t.CompletedAt = &at
	}
	t.UpdatedAt = now

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NotFound("task", id)
		}
		return nil, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	err := s.repo.Delete(ctx, userID, id)
	if errors.Is(err, ErrNotFound) {
		return apperror.NotFound("task", id)
	}
	return err
}

package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/listkeep/backend/domain"
	"github.com/listkeep/backend/repository"
)

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

// List returns the user's tasks, newest first. completed narrows the result
// to one completion state; nil returns both. An anonymous user gets an empty
// guest view rather than an error.
func (uc *UseCase) List(ctx context.Context, user *domain.User, completed *bool) ([]domain.Task, error) {
	if user == nil {
		return nil, nil
	}
	return uc.tasks.List(ctx, repository.TaskFilter{
		AuthorID:  user.ID,
		Completed: completed,
	})
}

// Create inserts a new incomplete task owned by user.
func (uc *UseCase) Create(ctx context.Context, user *domain.User, title, description string) (*domain.Task, error) {
	if title == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "Title is required.")
	}

	task := &domain.Task{
		AuthorID:    user.ID,
		Title:       title,
		Description: description,
	}
	return uc.tasks.Create(ctx, task)
}

// Get loads a task by id. With checkAuthor set it also enforces ownership;
// every mutating operation goes through this lookup first.
func (uc *UseCase) Get(ctx context.Context, id string, user *domain.User, checkAuthor bool) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if checkAuthor && !task.OwnedBy(user) {
		return nil, domain.ErrTaskForbidden
	}
	return task, nil
}

// Update overwrites title and description in place. The completion flag is
// untouched.
func (uc *UseCase) Update(ctx context.Context, id string, user *domain.User, title, description string) (*domain.Task, error) {
	task, err := uc.Get(ctx, id, user, true)
	if err != nil {
		return nil, err
	}
	if title == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "Title is required.")
	}

	task.Title = title
	task.Description = description
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ToggleCompletion flips the completion flag. Applying it twice restores the
// original state.
func (uc *UseCase) ToggleCompletion(ctx context.Context, id string, user *domain.User) (*domain.Task, error) {
	task, err := uc.Get(ctx, id, user, true)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes the task permanently after the ownership check.
func (uc *UseCase) Delete(ctx context.Context, id string, user *domain.User) error {
	if _, err := uc.Get(ctx, id, user, true); err != nil {
		return err
	}
	return uc.tasks.Delete(ctx, id)
}

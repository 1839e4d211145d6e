package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ayush/playlist-api/internal/auth"
	"github.com/ayush/playlist-api/internal/errs"
	"github.com/ayush/playlist-api/internal/models"
)

// CreateTaskList creates a task list with the signed-in user as its only member.
func (s *Service) CreateTaskList(ctx context.Context, title string) (*models.TaskList, error) {
	u, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	title, err = required("title", title)
	if err != nil {
		return nil, err
	}
	tl := &models.TaskList{
		Title:     title,
		CreatedAt: s.now().UTC(),
		UserIDs:   []string{models.NormalizeID(u)},
	}
	if err := s.store.CreateTaskList(ctx, tl); err != nil {
		return nil, fmt.Errorf("create task list: %w", err)
	}
	return tl, nil
}

// MyTaskLists lists the task lists the signed-in user is a member of.
func (s *Service) MyTaskLists(ctx context.Context) ([]models.TaskList, error) {
	u, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListTaskListsByUser(ctx, models.NormalizeID(u))
}

// GetTaskList returns a task list the signed-in user belongs to. Lists of
// other users are reported as not found.
func (s *Service) GetTaskList(ctx context.Context, id string) (*models.TaskList, error) {
	u, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.memberTaskList(ctx, u, id)
}

func (s *Service) memberTaskList(ctx context.Context, u *models.User, id string) (*models.TaskList, error) {
	tl, err := s.store.GetTaskList(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("task list %s: %w", id, err)
	}
	if !tl.HasMember(models.NormalizeID(u)) {
		return nil, fmt.Errorf("task list %s: %w", id, errs.ErrNotFound)
	}
	return tl, nil
}

// AddUserToTaskList adds a member to a task list; adding an existing member
// returns the list unchanged.
func (s *Service) AddUserToTaskList(ctx context.Context, taskListID, userID string) (*models.TaskList, error) {
	u, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	tl, err := s.memberTaskList(ctx, u, taskListID)
	if err != nil {
		return nil, err
	}
	member, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}
	key := models.NormalizeID(member)
	if tl.HasMember(key) {
		return tl, nil
	}
	if _, err := s.store.AddTaskListMember(ctx, models.NormalizeID(tl), key); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	return s.store.GetTaskList(ctx, models.NormalizeID(tl))
}

// CreateToDo adds an open to-do to a task list of the signed-in user.
func (s *Service) CreateToDo(ctx context.Context, content, taskListID string) (*models.ToDo, error) {
	u, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	content, err = required("content", content)
	if err != nil {
		return nil, err
	}
	tl, err := s.memberTaskList(ctx, u, taskListID)
	if err != nil {
		return nil, err
	}
	td := &models.ToDo{Content: content, TaskListID: models.NormalizeID(tl)}
	if err := s.store.CreateToDo(ctx, td); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return td, nil
}

// UpdateToDo applies the non-nil fields of patch.
func (s *Service) UpdateToDo(ctx context.Context, id string, patch models.ToDoPatch) (*models.ToDo, error) {
	u, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if patch.Content != nil {
		c := strings.TrimSpace(*patch.Content)
		if c == "" {
			return nil, fmt.Errorf("%w: content must not be empty", errs.ErrInvalidInput)
		}
		patch.Content = &c
	}
	td, err := s.store.GetToDo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("todo %s: %w", id, err)
	}
	if _, err := s.memberTaskList(ctx, u, td.TaskListID); err != nil {
		return nil, fmt.Errorf("todo %s: %w", id, errs.ErrNotFound)
	}
	if patch.Content == nil && patch.IsCompleted == nil {
		return td, nil
	}
	if err := s.store.UpdateToDo(ctx, models.NormalizeID(td), patch); err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	if patch.Content != nil {
		td.Content = *patch.Content
	}
	if patch.IsCompleted != nil {
		td.IsCompleted = *patch.IsCompleted
	}
	return td, nil
}

// TaskListByID loads a task list without a membership check; callers have
// already authorized access through a child entity.
func (s *Service) TaskListByID(ctx context.Context, id string) (*models.TaskList, error) {
	return s.store.GetTaskList(ctx, id)
}

func (s *Service) TaskListToDos(ctx context.Context, tl *models.TaskList) ([]models.ToDo, error) {
	return s.store.ListToDos(ctx, models.NormalizeID(tl))
}

// TaskListProgress is the percentage of completed to-dos, 0 for an empty list.
func (s *Service) TaskListProgress(ctx context.Context, tl *models.TaskList) (float64, error) {
	todos, err := s.TaskListToDos(ctx, tl)
	if err != nil {
		return 0, err
	}
	if len(todos) == 0 {
		return 0, nil
	}
	done := 0
	for _, td := range todos {
		if td.IsCompleted {
			done++
		}
	}
	return float64(done) * 100 / float64(len(todos)), nil
}

package googlesync

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/tasks/v1"
)

// TaskInput describes the task to create for one card. DueDate is an
// optional YYYY-MM-DD string.
type TaskInput struct {
	CardID  string
	Title   string
	Notes   string
	DueDate string
}

// TaskResult identifies the created task.
type TaskResult struct {
	TaskID string `json:"taskId"`
	Link   string `json:"taskLink,omitempty"`
}

// CreateTask inserts a task into the user's default task list.
func (s *Service) CreateTask(ctx context.Context, userID string, in TaskInput) (*TaskResult, error) {
	ts, err := s.tokenSource(ctx, userID)
	if err != nil {
		return nil, err
	}

	svc, err := tasks.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks client: %w", err)
	}

	lists, err := svc.Tasklists.List().MaxResults(1).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list task lists: %w", err)
	}
	if len(lists.Items) == 0 {
		return nil, fmt.Errorf("no task list found")
	}

	task := &tasks.Task{
		Title:  in.Title,
		Notes:  in.Notes,
		Status: "needsAction",
	}
	if in.DueDate != "" {
		due, parseErr := time.Parse("2006-01-02", in.DueDate)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid due date %q: %w", in.DueDate, parseErr)
		}
		task.Due = due.UTC().Format(time.RFC3339)
	}

	created, err := svc.Tasks.Insert(lists.Items[0].Id, task).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("google task created",
		"user_id", userID,
		"card_id", in.CardID,
		"task_id", created.Id)

	return &TaskResult{TaskID: created.Id, Link: created.SelfLink}, nil
}

package dto

import "taskmanager/listview"

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
	DueTime     string `json:"dueTime"`
}

// UpdateTaskRequest leaves a field unchanged when it is omitted.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	DueTime     *string `json:"dueTime"`
}

type TaskListResponse struct {
	Tasks   []listview.Row `json:"tasks"`
	Skipped int            `json:"skipped"`
	Stale   bool           `json:"stale,omitempty"`
	Message string         `json:"message,omitempty"`
	TaskID  string         `json:"taskId,omitempty"`
}

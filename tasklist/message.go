package tasklist

import (
	"errors"
)

var successMessages = map[Op]string{
	OpCreate: "Task created successfully",
	OpUpdate: "Task updated",
	OpDelete: "Task deleted",
}

var failureVerbs = map[Op]string{
	OpLoad:   "fetching tasks",
	OpCreate: "creating task",
	OpUpdate: "updating task",
	OpDelete: "deleting task",
}

var reloadPrefixes = map[Op]string{
	OpCreate: "Task saved",
	OpUpdate: "Task saved",
	OpDelete: "Task deleted",
}

// Message is the one-shot notification shown to the user after op
// completes with err (nil on success).
func Message(op Op, err error) string {
	var (
		verr   *ValidationError
		reload *ReloadError
		serr   *StoreError
	)
	switch {
	case err == nil:
		return successMessages[op]
	case errors.Is(err, ErrNotAuthenticated):
		if op == OpLoad {
			return "Please log in to view your tasks."
		}
		return "Please log in to manage your tasks."
	case errors.As(err, &verr):
		if verr.Missing() {
			return "Please fill all fields"
		}
		return verr.Error()
	case errors.Is(err, ErrBusy):
		return "Please wait, the previous change is still being saved"
	case errors.Is(err, ErrUnknownTask):
		return "Task not found"
	case errors.As(err, &reload):
		return reloadPrefixes[op] + ", but list refresh failed: " + reload.Error()
	case errors.As(err, &serr):
		return "Error " + failureVerbs[op] + ": " + serr.Error()
	}
	return "Error " + failureVerbs[op] + ": " + err.Error()
}

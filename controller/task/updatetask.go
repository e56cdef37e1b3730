package task

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/dto"
	"taskmanager/taskform"
	"taskmanager/tasklist"
)

// UpdateTask seeds an edit form from the stored task, so omitted fields
// keep their current values.
func (h *Handler) UpdateTask(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	taskID := c.Param("taskId")
	var taskReq dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&taskReq); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid input"})
		return
	}

	existing, found := ctrl.Find(taskID)
	if !found {
		if res, ok := h.run(c, ctrl, tasklist.Command{Op: tasklist.OpLoad}); !ok {
			return
		} else if res.Err != nil {
			h.respond(c, ctrl, tasklist.OpUpdate, http.StatusOK, res)
			return
		}
		if existing, found = ctrl.Find(taskID); !found {
			h.respond(c, ctrl, tasklist.OpUpdate, http.StatusOK, tasklist.Result{Err: tasklist.ErrUnknownTask})
			return
		}
	}

	form := taskform.Open(&existing)
	err := errors.Join(
		setOptional(taskReq.Title, form.SetTitle),
		setOptional(taskReq.Description, form.SetDescription),
		setOptional(taskReq.Priority, form.SetPriority),
		setOptional(taskReq.DueDate, form.SetDueDate),
		setOptional(taskReq.DueTime, form.SetDueTime),
	)
	if err != nil {
		h.formFailed(c, tasklist.OpUpdate, err)
		return
	}

	h.confirmAndRun(c, ctrl, form, http.StatusOK)
}

func setOptional(v *string, set func(string) error) error {
	if v == nil {
		return nil
	}
	return set(*v)
}

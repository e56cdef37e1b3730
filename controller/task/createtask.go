package task

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmanager/dto"
	"taskmanager/taskform"
	"taskmanager/tasklist"
)

// CreateTask requires all five fields. The form's default priority is not
// applied, so an omitted priority is a validation error.
func (h *Handler) CreateTask(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var taskReq dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&taskReq); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid input"})
		return
	}

	form := taskform.Open(nil)
	err := errors.Join(
		form.SetTitle(taskReq.Title),
		form.SetDescription(taskReq.Description),
		form.SetPriority(taskReq.Priority),
		form.SetDueDate(taskReq.DueDate),
		form.SetDueTime(taskReq.DueTime),
	)
	if err != nil {
		h.formFailed(c, tasklist.OpCreate, err)
		return
	}

	h.confirmAndRun(c, ctrl, form, http.StatusCreated)
}

// confirmAndRun validates the form and, when it closes, applies its command.
func (h *Handler) confirmAndRun(c *gin.Context, ctrl *tasklist.Controller, form *taskform.Form, okStatus int) {
	cmd, err := form.Confirm()
	if err != nil {
		op := tasklist.OpCreate
		if form.Mode() == taskform.ModeEdit {
			op = tasklist.OpUpdate
		}
		h.respond(c, ctrl, op, okStatus, tasklist.Result{Err: err})
		return
	}

	res, ok := h.wait(c, cmd, taskform.Apply(commandContext(c), ctrl, cmd))
	if !ok {
		return
	}
	h.respond(c, ctrl, cmd.Op, okStatus, res)
}

// formFailed answers a setter error. Handlers only touch freshly opened
// forms, so this is ErrClosed after a programming error.
func (h *Handler) formFailed(c *gin.Context, op tasklist.Op, err error) {
	h.logger.Error("task form rejected input", zap.String("operation", string(op)), zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: tasklist.Message(op, err)})
}

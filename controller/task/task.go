package task

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmanager/dto"
	"taskmanager/listview"
	"taskmanager/middleware"
	"taskmanager/tasklist"
)

type Handler struct {
	registry *tasklist.Registry
	logger   *zap.Logger
}

func NewHandler(registry *tasklist.Registry, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{registry: registry, logger: logger}
}

// TaskController mounts the task routes behind the given auth middleware.
func TaskController(router *gin.Engine, h *Handler, auth gin.HandlerFunc) {
	routes := router.Group("/task", auth)
	{
		routes.GET("", h.ListTasks)
		routes.POST("", h.CreateTask)
		routes.PUT("/:taskId", h.UpdateTask)
		routes.DELETE("/:taskId", h.DeleteTask)
	}
}

func (h *Handler) controller(c *gin.Context) (*tasklist.Controller, bool) {
	uid := middleware.UserID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: tasklist.Message(tasklist.OpLoad, tasklist.ErrNotAuthenticated)})
		return nil, false
	}
	return h.registry.For(uid), true
}

// run submits cmd to the controller and waits for its result.
func (h *Handler) run(c *gin.Context, ctrl *tasklist.Controller, cmd tasklist.Command) (tasklist.Result, bool) {
	return h.wait(c, cmd, ctrl.Submit(commandContext(c), cmd))
}

// wait returns the single result from done. If the client goes away first
// the command still completes but nobody answers; ok is false then.
func (h *Handler) wait(c *gin.Context, cmd tasklist.Command, done <-chan tasklist.Result) (res tasklist.Result, ok bool) {
	select {
	case res = <-done:
		return res, true
	case <-c.Request.Context().Done():
		h.logger.Info("client gone, dropping result",
			zap.String("operation", string(cmd.Op)), zap.String("taskId", cmd.TaskID))
		return tasklist.Result{}, false
	}
}

// commandContext keeps request values but not its cancellation, so a
// command outlives a client that disconnects.
func commandContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// respond writes the outcome of op. A ReloadError still answers with the
// last good list, flagged stale.
func (h *Handler) respond(c *gin.Context, ctrl *tasklist.Controller, op tasklist.Op, okStatus int, res tasklist.Result) {
	msg := tasklist.Message(op, res.Err)
	body := dto.TaskListResponse{
		Tasks:   listview.Project(ctrl.Tasks()),
		Skipped: res.Report.Skipped,
		Message: msg,
		TaskID:  res.Report.TaskID,
	}

	var (
		verr   *tasklist.ValidationError
		reload *tasklist.ReloadError
		serr   *tasklist.StoreError
	)
	switch err := res.Err; {
	case err == nil:
		c.JSON(okStatus, body)
	case errors.As(err, &reload):
		body.Stale = true
		c.JSON(http.StatusOK, body)
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "fields": verr.Fields})
	case errors.Is(err, tasklist.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: msg})
	case errors.Is(err, tasklist.ErrBusy):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: msg})
	case errors.Is(err, tasklist.ErrUnknownTask):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: msg})
	case errors.As(err, &serr):
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: msg})
	default:
		h.logger.Error("unexpected task error", zap.String("operation", string(op)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msg})
	}
}

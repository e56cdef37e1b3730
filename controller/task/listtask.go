package task

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/dto"
	"taskmanager/listview"
	"taskmanager/tasklist"
)

// ListTasks reloads the caller's list. When the store cannot be reached the
// last good list is served, flagged stale.
func (h *Handler) ListTasks(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	res, ok := h.run(c, ctrl, tasklist.Command{Op: tasklist.OpLoad})
	if !ok {
		return
	}

	var serr *tasklist.StoreError
	if errors.As(res.Err, &serr) {
		c.JSON(http.StatusOK, dto.TaskListResponse{
			Tasks:   listview.Project(ctrl.Tasks()),
			Stale:   true,
			Message: tasklist.Message(tasklist.OpLoad, res.Err),
		})
		return
	}
	if res.Err == nil && c.Query("format") == "text" {
		view := &listview.View{}
		view.Refresh(ctrl.Tasks())
		var buf bytes.Buffer
		if err := view.Render(&buf); err != nil {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
		return
	}
	h.respond(c, ctrl, tasklist.OpLoad, http.StatusOK, res)
}

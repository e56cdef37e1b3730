package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/tasklist"
)

func (h *Handler) DeleteTask(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	cmd := tasklist.Command{Op: tasklist.OpDelete, TaskID: c.Param("taskId")}
	res, ok := h.run(c, ctrl, cmd)
	if !ok {
		return
	}
	h.respond(c, ctrl, tasklist.OpDelete, http.StatusOK, res)
}

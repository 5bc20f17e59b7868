package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListAuditLogs(c *gin.Context) {
	logs, err := h.audit.Recent(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, err, "", nil)
		return
	}

	render(c, http.StatusOK, "audit_list.html", gin.H{"Logs": logs})
}

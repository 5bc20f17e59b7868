package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) IndexPage(c *gin.Context) {
	landing, err := h.apps.Landing(c.Request.Context())
	if err != nil {
		fail(c, err, "", nil)
		return
	}

	render(c, http.StatusOK, "index.html", gin.H{
		"Done":          landing.Done,
		"AcceptedCount": landing.AcceptedCount,
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

package handlers

import (
	"net/http"

	"design-studio/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListCategories(c *gin.Context) {
	h.renderCategories(c, service.CategoryForm{}, nil)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var form service.CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderCategories(c, form, bindError("name"))
		return
	}
	if _, err := h.categories.Create(c.Request.Context(), identity(c), form); err != nil {
		h.renderCategories(c, form, err)
		return
	}
	c.Redirect(http.StatusFound, "/categories")
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return
	}
	if err := h.categories.Delete(c.Request.Context(), identity(c), id); err != nil {
		fail(c, err, "", nil)
		return
	}
	c.Redirect(http.StatusFound, "/categories")
}

func (h *Handler) renderCategories(c *gin.Context, form service.CategoryForm, err error) {
	categories, lerr := h.categories.List(c.Request.Context(), identity(c))
	if lerr != nil {
		fail(c, lerr, "", nil)
		return
	}
	data := gin.H{"Categories": categories, "Form": form}
	if err != nil {
		fail(c, err, "categories.html", data)
		return
	}
	render(c, http.StatusOK, "categories.html", data)
}

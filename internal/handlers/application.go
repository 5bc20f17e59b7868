package handlers

import (
	"fmt"
	"net/http"

	"design-studio/internal/auth"
	"design-studio/internal/middleware"
	"design-studio/internal/models"
	"design-studio/internal/service"
	"design-studio/internal/validation"
	"design-studio/internal/view"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ShowCreateApplication(c *gin.Context) {
	h.renderCreateForm(c, http.StatusOK, service.ApplicationForm{}, nil)
}

func (h *Handler) CreateApplication(c *gin.Context) {
	var form service.ApplicationForm
	if err := c.ShouldBind(&form); err != nil {
		if middleware.IsTooLarge(err) {
			middleware.RequestTooLarge(c)
			return
		}
		h.renderCreateForm(c, http.StatusBadRequest, form, bindError("category_id"))
		return
	}

	img, err := readUpload(c, "image", validation.MaxRequestImageSize)
	if err != nil {
		failUpload(c, err)
		return
	}

	if _, err := h.apps.Create(c.Request.Context(), identity(c), form, img); err != nil {
		h.renderCreateForm(c, http.StatusBadRequest, form, err)
		return
	}
	c.Redirect(http.StatusFound, "/applications/custom")
}

func (h *Handler) renderCreateForm(c *gin.Context, status int, form service.ApplicationForm, err error) {
	categories, lerr := h.categories.Options(c.Request.Context())
	if lerr != nil {
		fail(c, lerr, "", nil)
		return
	}
	data := gin.H{"Form": form, "Categories": categories}
	if err != nil {
		fail(c, err, "application_create.html", data)
		return
	}
	render(c, status, "application_create.html", data)
}

func (h *Handler) ShowApplication(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return
	}
	app, err := h.apps.Get(c.Request.Context(), identity(c), id)
	if err != nil {
		fail(c, err, "", nil)
		return
	}
	render(c, http.StatusOK, "application_detail.html", detailData(c, app))
}

func detailData(c *gin.Context, app *models.Application) gin.H {
	id := identity(c)
	return gin.H{
		"App":             app,
		"Statuses":        models.Statuses,
		"CanDelete":       app.Status == models.StatusNew && app.PublishedBy(id.UserID),
		"CanSubmitDesign": auth.IsEmployer(id),
		"CanChangeStatus": auth.IsEmployerOrSuperuser(id),
	}
}

func (h *Handler) DeleteApplication(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return
	}
	if err := h.apps.Delete(c.Request.Context(), identity(c), id); err != nil {
		fail(c, err, "", nil)
		return
	}
	c.Redirect(http.StatusFound, "/applications/custom")
}

func (h *Handler) ListCustomApplications(c *gin.Context) {
	status := c.Query("status")
	apps, err := h.apps.ListOwn(c.Request.Context(), identity(c), status)
	if err != nil {
		fail(c, err, "", nil)
		return
	}
	renderList(c, "Мои заявки", "/applications/custom", status, apps)
}

func (h *Handler) ListAllApplications(c *gin.Context) {
	status := c.Query("status")
	apps, err := h.apps.ListAll(c.Request.Context(), identity(c), status)
	if err != nil {
		fail(c, err, "", nil)
		return
	}
	renderList(c, "Все заявки", "/applications/all", status, apps)
}

func renderList(c *gin.Context, title, action, status string, apps []models.Application) {
	if !models.ApplicationStatus(status).Valid() {
		status = ""
	}
	render(c, http.StatusOK, "applications_list.html", gin.H{
		"Title":    title,
		"Action":   action,
		"Status":   status,
		"Statuses": models.Statuses,
		"Apps":     apps,
	})
}

func (h *Handler) SubmitDesign(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return
	}

	img, err := readUpload(c, "design_image", 0)
	if err != nil {
		failUpload(c, err)
		return
	}

	if _, err := h.apps.SubmitDesign(c.Request.Context(), identity(c), id, img); err != nil {
		h.failOnDetail(c, id, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/application/%d", id))
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return
	}

	var form service.StatusForm
	if err := c.ShouldBind(&form); err != nil {
		h.failOnDetail(c, id, bindError("status"))
		return
	}

	if _, err := h.apps.ChangeStatus(c.Request.Context(), identity(c), id, form); err != nil {
		h.failOnDetail(c, id, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/application/%d", id))
}

// failOnDetail показывает ошибки формы на карточке заявки.
func (h *Handler) failOnDetail(c *gin.Context, id uint, err error) {
	app, gerr := h.apps.Get(c.Request.Context(), identity(c), id)
	if gerr != nil {
		fail(c, err, "", nil)
		return
	}
	fail(c, err, "application_detail.html", detailData(c, app))
}

func (h *Handler) notFound(c *gin.Context) {
	view.Message(c, http.StatusNotFound, "Ресурс недоступен", "Страница не найдена")
}

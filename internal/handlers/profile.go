package handlers

import (
	"net/http"

	"design-studio/internal/logger"
	"design-studio/internal/middleware"
	"design-studio/internal/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) ShowProfile(c *gin.Context) {
	user, err := h.accounts.Profile(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, err, "", nil)
		return
	}
	render(c, http.StatusOK, "profile.html", gin.H{"User": user})
}

func (h *Handler) ShowEditProfile(c *gin.Context) {
	user, err := h.accounts.Profile(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, err, "", nil)
		return
	}

	render(c, http.StatusOK, "profile_edit.html", gin.H{"Form": service.ProfileForm{
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Patronymic: user.Patronymic,
		Email:      user.Email,
	}})
}

// UpdateProfile — сессия хранит id пользователя, поэтому смена ника её не сбрасывает.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var form service.ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, bindError("__all__"), "profile_edit.html", gin.H{"Form": form})
		return
	}

	if _, err := h.accounts.UpdateProfile(c.Request.Context(), identity(c), form); err != nil {
		fail(c, err, "profile_edit.html", gin.H{"Form": form})
		return
	}
	c.Redirect(http.StatusFound, "/profile")
}

func (h *Handler) ShowChangePassword(c *gin.Context) {
	render(c, http.StatusOK, "password_change.html", nil)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var form service.PasswordForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, bindError("__all__"), "password_change.html", nil)
		return
	}

	id, err := h.accounts.ChangePassword(c.Request.Context(), identity(c), form)
	if err != nil {
		fail(c, err, "password_change.html", nil)
		return
	}

	// остальные сессии пользователя перестают действовать, текущая сохраняется
	if err := middleware.StartSession(sessions.Default(c), id); err != nil {
		logger.L().Warn("failed to refresh session", zap.Uint("user_id", id.UserID), zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/profile")
}

func (h *Handler) ShowDeleteProfile(c *gin.Context) {
	user, err := h.accounts.Profile(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, err, "", nil)
		return
	}
	render(c, http.StatusOK, "profile_delete.html", gin.H{"User": user})
}

func (h *Handler) DeleteProfile(c *gin.Context) {
	if err := h.accounts.DeleteAccount(c.Request.Context(), identity(c)); err != nil {
		fail(c, err, "", nil)
		return
	}

	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := sess.Save(); err != nil {
		logger.L().Warn("failed to clear session", zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/")
}

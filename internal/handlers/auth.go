package handlers

import (
	"net/http"

	"design-studio/internal/auth"
	"design-studio/internal/logger"
	"design-studio/internal/middleware"
	"design-studio/internal/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{"Form": service.RegisterForm{}})
}

func (h *Handler) Register(c *gin.Context) {
	var form service.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, bindError("__all__"), "register.html", gin.H{"Form": form})
		return
	}

	if _, err := h.accounts.Register(c.Request.Context(), form); err != nil {
		form.Password, form.Password2 = "", ""
		fail(c, err, "register.html", gin.H{"Form": form})
		return
	}

	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{"Form": service.LoginForm{}})
}

func (h *Handler) Login(c *gin.Context) {
	var form service.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, bindError("__all__"), "login.html", gin.H{"Form": form})
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), form)
	if err != nil {
		form.Password = ""
		fail(c, err, "login.html", gin.H{"Form": form})
		return
	}

	sess := sessions.Default(c)
	sess.Clear()
	if err := middleware.StartSession(sess, auth.FromUser(user)); err != nil {
		fail(c, err, "", nil)
		return
	}

	logger.L().Info("user logged in", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := sess.Save(); err != nil {
		logger.L().Warn("failed to clear session", zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/login")
}

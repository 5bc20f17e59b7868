package middleware

import (
	"net/http"

	"design-studio/internal/auth"
	"design-studio/internal/view"

	"github.com/gin-gonic/gin"
)

// RequireAuth отправляет анонимного пользователя на страницу входа
// до любых проверок роли.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.Authenticated(auth.FromContext(c.Request.Context())) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole пропускает запрос, только если личность удовлетворяет предикату.
func RequireRole(p auth.Predicate) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := auth.FromContext(c.Request.Context())
		if !auth.Authenticated(id) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if !p(id) {
			view.Message(c, http.StatusForbidden, "Доступ запрещён", "Недостаточно прав")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Package view собирает данные для шаблонов: текущего пользователя и флаги ролей.
package view

import (
	"design-studio/internal/auth"

	"github.com/gin-gonic/gin"
)

const TmplMessage = "message.html"

// Render — обёртка над c.HTML, которая во все шаблоны прокидывает CurrentUser.
func Render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	id := auth.FromContext(c.Request.Context())
	data["CurrentUser"] = id
	data["IsAuthenticated"] = auth.Authenticated(id)
	data["IsPlainUser"] = auth.IsPlainUser(id)
	data["IsEmployer"] = auth.IsEmployer(id)
	data["IsSuperuser"] = auth.IsSuperuser(id)
	data["IsStaff"] = auth.IsEmployerOrSuperuser(id)
	if rid, ok := c.Get(RequestIDKey); ok {
		data["RequestID"] = rid
	}

	c.HTML(status, tmpl, data)
}

// Message показывает страницу с одним сообщением (отказ, нарушение правил, 404).
func Message(c *gin.Context, status int, title, msg string) {
	Render(c, status, TmplMessage, gin.H{"Title": title, "Message": msg})
}

// RequestIDKey — ключ идентификатора запроса в gin.Context.
const RequestIDKey = "request_id"

package handlers

import (
	"net/http"

	"design-studio/internal/apperr"
	"design-studio/internal/auth"
	"design-studio/internal/logger"
	"design-studio/internal/middleware"
	"design-studio/internal/view"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// render — обёртка над c.HTML, которая во все шаблоны прокидывает CurrentUser.
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	view.Render(c, status, tmpl, data)
}

func identity(c *gin.Context) *auth.Identity {
	return auth.FromContext(c.Request.Context())
}

// fail переводит ошибку сервиса в ответ. Ошибки валидации показываются
// на той же форме (tmpl), остальные — отдельной страницей.
func fail(c *gin.Context, err error, tmpl string, data gin.H) {
	switch apperr.CodeOf(err) {
	case apperr.CodeInvalid:
		if tmpl == "" {
			view.Message(c, http.StatusBadRequest, "Ошибка в данных", firstFieldMessage(err))
			return
		}
		if data == nil {
			data = gin.H{}
		}
		data["Errors"] = apperr.Fields(err)
		render(c, http.StatusBadRequest, tmpl, data)
	case apperr.CodeUnauthenticated:
		c.Redirect(http.StatusFound, "/login")
	case apperr.CodeForbidden:
		view.Message(c, http.StatusForbidden, "Доступ запрещён", apperr.Message(err))
	case apperr.CodePolicy:
		view.Message(c, http.StatusConflict, "Действие невозможно", apperr.Message(err))
	case apperr.CodeNotFound:
		view.Message(c, http.StatusNotFound, "Ресурс недоступен", apperr.Message(err))
	default:
		logger.L().Error("request failed",
			zap.String("id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		_ = c.Error(err)
		view.Message(c, http.StatusInternalServerError, "Ошибка", "Внутренняя ошибка сервера")
	}
}

func firstFieldMessage(err error) string {
	for _, msg := range apperr.Fields(err) {
		return msg
	}
	return apperr.Message(err)
}

// bindError — форма не разобралась (например, нечисловой category_id).
func bindError(field string) error {
	return apperr.FieldError(field, "Некорректное значение")
}

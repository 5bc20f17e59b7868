package middleware

import (
	"errors"
	"net/http"

	"design-studio/internal/view"

	"github.com/gin-gonic/gin"
)

// BodyLimit ограничивает тело запроса n байтами. Запрос с заявленной длиной
// больше предела отклоняется сразу, остальные обрезаются при чтении.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			RequestTooLarge(c)
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// IsTooLarge — ошибка чтения тела вызвана пределом BodyLimit.
func IsTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func RequestTooLarge(c *gin.Context) {
	view.Message(c, http.StatusRequestEntityTooLarge, "Слишком большой запрос", "Размер загружаемого файла превышает допустимый")
}

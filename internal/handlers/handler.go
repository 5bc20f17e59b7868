// Package handlers — HTTP-обработчики портала поверх service.
package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"design-studio/internal/middleware"
	"design-studio/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	accounts   *service.Accounts
	apps       *service.Applications
	categories *service.Categories
	audit      *service.Audit
}

func New(accounts *service.Accounts, apps *service.Applications, categories *service.Categories, audit *service.Audit) *Handler {
	return &Handler{accounts: accounts, apps: apps, categories: categories, audit: audit}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// readUpload читает файл из multipart-формы. limit > 0 ограничивает чтение
// limit+1 байтами: этого достаточно, чтобы сервис увидел превышение.
// Всё тело запроса ограничено middleware.BodyLimit на маршруте.
func readUpload(c *gin.Context, field string, limit int64) (service.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return service.Upload{}, nil
		}
		return service.Upload{}, err
	}

	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, err
	}
	defer f.Close()

	var r io.Reader = f
	if limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return service.Upload{}, err
	}
	return service.Upload{Filename: fh.Filename, Data: data}, nil
}

func failUpload(c *gin.Context, err error) {
	if middleware.IsTooLarge(err) {
		middleware.RequestTooLarge(c)
		return
	}
	fail(c, err, "", nil)
}

package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"design-studio/internal/config"
	"design-studio/internal/database"
	"design-studio/internal/handlers"
	"design-studio/internal/media"
	"design-studio/internal/models"
	"design-studio/internal/service"
	"design-studio/internal/store"
	"design-studio/internal/testutil"
	"design-studio/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type app struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
}

func newApp(t *testing.T) *app {
	t.Helper()
	db := testutil.OpenDB(t)
	require.NoError(t, database.EnsureSuperuser(context.Background(), db, database.Admin{
		Username: "admin", Password: "Admin12345", Email: "admin@mail.test",
	}))

	m := media.NewMemStore()
	v := validation.New()
	users := store.NewUserStore(db)
	cats := store.NewCategoryStore(db)
	apps := store.NewApplicationStore(db)
	audit := store.NewAuditStore(db)

	accounts := service.NewAccounts(users, audit, v).WithHashCost(bcrypt.MinCost)
	h := handlers.New(
		accounts,
		service.NewApplications(apps, cats, audit, m, v),
		service.NewCategories(cats, audit, m, v),
		service.NewAudit(audit),
	)

	cfg := &config.Config{
		GinMode:           gin.TestMode,
		SessionSecret:     "test-session-secret-0123456789",
		AuthRatePerMinute: 1000,
		MaxUploadMB:       1,
	}
	r, err := NewRouter(cfg, Deps{Handlers: h, Identity: accounts, Media: m.HTTP()})
	require.NoError(t, err)
	return &app{t: t, router: r, db: db}
}

// client хранит cookie сессии между запросами.
type client struct {
	app     *app
	cookies []*http.Cookie
}

func (a *app) client() *client { return &client{app: a} }

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.app.router.ServeHTTP(w, req)
	if set := w.Result().Cookies(); len(set) > 0 {
		c.cookies = c.cookies[:0]
		for _, ck := range set {
			if ck.MaxAge >= 0 {
				c.cookies = append(c.cookies, ck)
			}
		}
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) postMultipart(path string, fields map[string]string, fileField, fileName string, data []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(c.app.t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(c.app.t, err)
		_, err = fw.Write(data)
		require.NoError(c.app.t, err)
	}
	require.NoError(c.app.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func (c *client) login(username, password string) {
	w := c.post("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(c.app.t, http.StatusFound, w.Code, w.Body.String())
	require.Equal(c.app.t, "/", w.Header().Get("Location"))
}

func (a *app) register(username string, employer bool) *client {
	form := url.Values{
		"username":       {username},
		"first_name":     {"Иван"},
		"last_name":      {"Петров"},
		"email":          {username + "@mail.test"},
		"password":       {"secret-pass"},
		"password2":      {"secret-pass"},
		"agree_to_terms": {"true"},
	}
	if employer {
		form.Set("is_employer", "true")
	}
	c := a.client()
	w := c.post("/register", form)
	require.Equal(a.t, http.StatusFound, w.Code, w.Body.String())
	c.login(username, "secret-pass")
	return c
}

func TestHealthAndMetrics(t *testing.T) {
	a := newApp(t)
	c := a.client()

	w := c.get("/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	assert.Equal(t, http.StatusOK, c.get("/metrics").Code)
	assert.Equal(t, http.StatusOK, c.get("/static/style.css").Code)
	assert.Equal(t, http.StatusNotFound, c.get("/nowhere").Code)
}

func TestAnonymousIsRedirectedToLogin(t *testing.T) {
	a := newApp(t)
	c := a.client()

	for _, path := range []string{"/applications/all", "/applications/custom", "/profile", "/categories", "/application/1"} {
		w := c.get(path)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
	}

	w := c.get("/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Заявок в работе")
}

func TestPlainUserIsForbiddenFromStaffPages(t *testing.T) {
	a := newApp(t)
	c := a.register("ivan", false)

	w := c.get("/applications/all")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Недостаточно прав")

	assert.Equal(t, http.StatusForbidden, c.get("/categories").Code)
	assert.Equal(t, http.StatusOK, c.get("/applications/custom").Code)
	assert.Equal(t, http.StatusOK, c.get("/profile").Code)
}

func TestRegisterShowsFieldErrors(t *testing.T) {
	a := newApp(t)
	a.register("ivan", false)

	w := a.client().post("/register", url.Values{
		"username":       {"ivan"},
		"first_name":     {"Иван"},
		"last_name":      {"Петров"},
		"email":          {"new@mail.test"},
		"password":       {"secret-pass"},
		"password2":      {"secret-pass"},
		"agree_to_terms": {"true"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Пользователь с таким ником уже существует")

	var count int64
	require.NoError(t, a.db.Model(&models.User{}).Where("username = ?", "ivan").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestWrongPasswordStaysOnLogin(t *testing.T) {
	a := newApp(t)
	w := a.client().post("/login", url.Values{"username": {"admin"}, "password": {"nope-nope"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Неверное имя пользователя или пароль")
}

func TestApplicationFlowOverHTTP(t *testing.T) {
	a := newApp(t)

	admin := a.client()
	admin.login("admin", "Admin12345")
	w := admin.post("/category/create", url.Values{"name": {"Логотипы"}})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	var cat models.Category
	require.NoError(t, a.db.First(&cat).Error)

	user := a.register("ivan", false)
	w = user.postMultipart("/application/create", map[string]string{
		"name":        "Логотип кофейни",
		"description": "Минимализм",
		"category_id": itoa(cat.ID),
		"status":      "d",
	}, "image", "logo.png", testutil.PNG())
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	var created models.Application
	require.NoError(t, a.db.First(&created).Error)
	assert.Equal(t, models.StatusNew, created.Status, "client-supplied status is ignored")

	w = user.get("/applications/custom")
	assert.Contains(t, w.Body.String(), "Логотип кофейни")
	assert.Equal(t, http.StatusOK, user.get("/media/"+created.Image).Code)

	w = user.postMultipart("/application/create", map[string]string{
		"name":        "Гифка",
		"description": "не пройдёт",
		"category_id": itoa(cat.ID),
	}, "image", "fake.png", testutil.GIF())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Неверный формат файла")

	employer := a.register("olga", true)
	w = employer.postMultipart("/application/"+itoa(created.ID)+"/edit/design", nil, "design_image", "d.jpg", testutil.JPEG())
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	w = employer.post("/application/"+itoa(created.ID)+"/edit/status", url.Values{"status": {"d"}, "comment": {"Готово"}})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	w = user.post("/application/"+itoa(created.ID)+"/delete", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.client().get("/")
	assert.Contains(t, w.Body.String(), "Логотип кофейни")

	w = admin.get("/audit")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Создана заявка")

	w = admin.post("/category/"+itoa(cat.ID)+"/delete", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, http.StatusNotFound, employer.get("/application/"+itoa(created.ID)).Code)
}

func TestPasswordChangeEndsOtherSessions(t *testing.T) {
	a := newApp(t)
	current := a.register("ivan", false)
	other := a.client()
	other.login("ivan", "secret-pass")
	require.Equal(t, http.StatusOK, other.get("/profile").Code)

	w := current.post("/profile/edit/password", url.Values{
		"old_password":  {"secret-pass"},
		"new_password1": {"new-secret-pass"},
		"new_password2": {"new-secret-pass"},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	assert.Equal(t, http.StatusOK, current.get("/profile").Code)

	w = other.get("/profile")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	other.login("ivan", "new-secret-pass")
	assert.Equal(t, http.StatusOK, other.get("/profile").Code)
}

func TestOversizedUploadIsRejected(t *testing.T) {
	a := newApp(t)
	admin := a.client()
	admin.login("admin", "Admin12345")
	w := admin.post("/category/create", url.Values{"name": {"Логотипы"}})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	var cat models.Category
	require.NoError(t, a.db.First(&cat).Error)

	user := a.register("ivan", false)
	w = user.postMultipart("/application/create", map[string]string{
		"name":        "Логотип",
		"description": "описание",
		"category_id": itoa(cat.ID),
	}, "image", "logo.png", testutil.PNG())
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	var created models.Application
	require.NoError(t, a.db.First(&created).Error)

	huge := bytes.Repeat([]byte{0}, 2<<20)
	employer := a.register("olga", true)
	w = employer.postMultipart("/application/"+itoa(created.ID)+"/edit/design", nil, "design_image", "d.png", huge)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = user.postMultipart("/application/create", map[string]string{
		"name":        "Ещё",
		"description": "описание",
		"category_id": itoa(cat.ID),
	}, "image", "big.png", huge)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var count int64
	require.NoError(t, a.db.Model(&models.Application{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	require.NoError(t, a.db.First(&created, created.ID).Error)
	assert.Empty(t, created.DesignImage)
}

func TestLogoutAndDeleteProfile(t *testing.T) {
	a := newApp(t)
	c := a.register("ivan", false)

	w := c.post("/logout", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, http.StatusFound, c.get("/profile").Code)

	c.login("ivan", "secret-pass")
	assert.Equal(t, http.StatusOK, c.get("/profile/delete").Code)
	w = c.post("/profile/delete", nil)
	assert.Equal(t, http.StatusFound, w.Code)

	var count int64
	require.NoError(t, a.db.Model(&models.User{}).Where("username = ?", "ivan").Count(&count).Error)
	assert.Zero(t, count)
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "iv***@mail.ru", maskEmail("ivan@mail.ru"))
	assert.Equal(t, "a***@mail.ru", maskEmail("a@mail.ru"))
	assert.Equal(t, "***", maskEmail("broken"))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

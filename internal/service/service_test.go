package service

import (
	"context"
	"testing"

	"design-studio/internal/apperr"
	"design-studio/internal/auth"
	"design-studio/internal/media"
	"design-studio/internal/models"
	"design-studio/internal/store"
	"design-studio/internal/testutil"
	"design-studio/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type env struct {
	db         *gorm.DB
	media      *media.Store
	users      *store.UserStore
	appStore   *store.ApplicationStore
	accounts   *Accounts
	apps       *Applications
	categories *Categories
	audit      *Audit
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.OpenDB(t)
	m := media.NewMemStore()
	v := validation.New()

	users := store.NewUserStore(db)
	cats := store.NewCategoryStore(db)
	apps := store.NewApplicationStore(db)
	audit := store.NewAuditStore(db)

	return &env{
		db:         db,
		media:      m,
		users:      users,
		appStore:   apps,
		accounts:   NewAccounts(users, audit, v).WithHashCost(bcrypt.MinCost),
		apps:       NewApplications(apps, cats, audit, m, v),
		categories: NewCategories(cats, audit, m, v),
		audit:      NewAudit(audit),
	}
}

// identity создаёт пользователя с ролью напрямую в хранилище.
func (e *env) identity(t *testing.T, username string, role models.UserRole) *auth.Identity {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@mail.test",
		PasswordHash: "x",
		FirstName:    "Иван",
		LastName:     "Иванов",
		Role:         role,
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return auth.FromUser(u)
}

func (e *env) category(t *testing.T, name string) *models.Category {
	t.Helper()
	admin := &auth.Identity{UserID: 1 << 20, Username: "root", Role: models.RoleSuperuser}
	c, err := e.categories.Create(context.Background(), admin, CategoryForm{Name: name})
	require.NoError(t, err)
	return c
}

func (e *env) application(t *testing.T, id *auth.Identity, cat *models.Category) *models.Application {
	t.Helper()
	app, err := e.apps.Create(context.Background(), id, ApplicationForm{
		Name:        "Логотип",
		Description: "Нужен логотип для кофейни",
		CategoryID:  cat.ID,
	}, Upload{Filename: "sketch.png", Data: testutil.PNG()})
	require.NoError(t, err)
	return app
}

func (e *env) countUsers(t *testing.T) int64 {
	var n int64
	require.NoError(t, e.db.Model(&models.User{}).Count(&n).Error)
	return n
}

func assertCode(t *testing.T, err error, code apperr.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, apperr.CodeOf(err), "error: %v", err)
}

func assertField(t *testing.T, err error, field string) {
	t.Helper()
	assertCode(t, err, apperr.CodeInvalid)
	assert.Contains(t, apperr.Fields(err), field)
}

package store

import (
	"context"
	"testing"
	"time"

	"design-studio/internal/models"
	"design-studio/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	users *UserStore
	cats  *CategoryStore
	apps  *ApplicationStore
	audit *AuditStore
}

func newFixture(t *testing.T) *fixture {
	db := testutil.OpenDB(t)
	return &fixture{
		db:    db,
		users: NewUserStore(db),
		cats:  NewCategoryStore(db),
		apps:  NewApplicationStore(db),
		audit: NewAuditStore(db),
	}
}

func (f *fixture) user(t *testing.T, name string, role models.UserRole) *models.User {
	u := &models.User{Username: name, Email: name + "@mail.test", PasswordHash: "x", Role: role}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) category(t *testing.T, name string) *models.Category {
	c := &models.Category{Name: name}
	require.NoError(t, f.cats.Create(context.Background(), c))
	return c
}

func (f *fixture) application(t *testing.T, name string, cat *models.Category, publisher *models.User, status models.ApplicationStatus) *models.Application {
	a := &models.Application{
		Name:        name,
		Description: "описание",
		CategoryID:  cat.ID,
		Image:       "applications/" + name + ".png",
		PublisherID: &publisher.ID,
		Status:      status,
	}
	require.NoError(t, f.apps.Create(context.Background(), a))
	return a
}

func TestUserStoreDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ivan", models.RoleUser)

	err := f.users.Create(ctx, &models.User{Username: "ivan", Email: "other@mail.test", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrDuplicate)

	taken, err := f.users.UsernameTaken(ctx, "ivan", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = f.users.UsernameTaken(ctx, "ivan", u.ID)
	require.NoError(t, err)
	assert.False(t, taken, "own username is not a conflict")

	taken, err = f.users.EmailTaken(ctx, "IVAN@mail.test", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	_, err = f.users.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserDeleteKeepsApplications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	publisher := f.user(t, "ivan", models.RoleUser)
	designer := f.user(t, "olga", models.RoleEmployer)
	cat := f.category(t, "Логотипы")
	app := f.application(t, "logo", cat, publisher, models.StatusNew)
	require.NoError(t, f.apps.UpdateDesign(ctx, app.ID, designer.ID, "designs/logo.png"))

	require.NoError(t, f.users.Delete(ctx, publisher.ID))
	require.NoError(t, f.users.Delete(ctx, designer.ID))

	got, err := f.apps.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PublisherID)
	assert.Nil(t, got.DesignerID)
	assert.Equal(t, "designs/logo.png", got.DesignImage)

	assert.ErrorIs(t, f.users.Delete(ctx, publisher.ID), ErrNotFound)
}

func TestCategoryDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "ivan", models.RoleUser)
	doomed := f.category(t, "Баннеры")
	kept := f.category(t, "Логотипы")
	for _, name := range []string{"a1", "a2", "a3"} {
		f.application(t, name, doomed, owner, models.StatusNew)
	}
	survivor := f.application(t, "b1", kept, owner, models.StatusNew)

	images, err := f.cats.Delete(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Len(t, images, 3)

	all, err := f.apps.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, survivor.ID, all[0].ID)

	_, err = f.cats.Delete(ctx, doomed.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplicationListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ivan := f.user(t, "ivan", models.RoleUser)
	anna := f.user(t, "anna", models.RoleUser)
	cat := f.category(t, "Логотипы")

	first := f.application(t, "first", cat, ivan, models.StatusNew)
	f.application(t, "second", cat, anna, models.StatusNew)
	third := f.application(t, "third", cat, ivan, models.StatusNew)
	require.NoError(t, f.apps.UpdateStatus(ctx, third.ID, models.StatusDone, ""))

	own, err := f.apps.List(ctx, ListFilter{PublisherID: &ivan.ID})
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, third.ID, own[0].ID, "newest first")
	assert.Equal(t, first.ID, own[1].ID)

	done, err := f.apps.List(ctx, ListFilter{Status: models.StatusDone})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, third.ID, done[0].ID)

	n, err := f.apps.CountByStatus(ctx, models.StatusNew)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestDeleteNewRespectsStatusAndOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ivan := f.user(t, "ivan", models.RoleUser)
	anna := f.user(t, "anna", models.RoleUser)
	cat := f.category(t, "Логотипы")
	app := f.application(t, "logo", cat, ivan, models.StatusNew)

	ok, err := f.apps.DeleteNew(ctx, app.ID, anna.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.apps.UpdateStatus(ctx, app.ID, models.StatusAccepted, ""))
	ok, err = f.apps.DeleteNew(ctx, app.ID, ivan.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.apps.UpdateStatus(ctx, app.ID, models.StatusNew, ""))
	ok, err = f.apps.DeleteNew(ctx, app.ID, ivan.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuditRetention(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.audit.Record(ctx, models.AuditLog{Entity: "category", Action: "create", CreatedAt: time.Now().AddDate(0, 0, -100)})
	f.audit.Record(ctx, models.AuditLog{Entity: "category", Action: "delete"})

	removed, err := f.audit.DeleteOlderThan(ctx, time.Now().AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	logs, err := f.audit.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "delete", logs[0].Action)
}

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"design-studio/internal/logger"
	"design-studio/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Options struct {
	Driver   string // "postgres" или "sqlite"
	DSN      string
	Debug    bool
	Attempts int
}

// Open подключается к БД (с повторами — postgres в docker поднимается не сразу)
// и выполняет миграции.
func Open(opts Options) (*gorm.DB, error) {
	dialector, err := dialectorFor(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	gormLog := newGormLogger(logger.L(), gormlogger.Warn)
	if opts.Debug {
		gormLog = gormLog.LogMode(gormlogger.Info)
	}
	cfg := &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
	}

	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	var db *gorm.DB
	for i := 1; i <= attempts; i++ {
		logger.L().Info("connecting to DB", zap.String("driver", opts.Driver), zap.Int("attempt", i), zap.Int("max", attempts))

		db, err = gorm.Open(dialector, cfg)
		if err == nil {
			break
		}

		logger.L().Warn("failed to connect to DB", zap.Error(err))
		if i < attempts {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to db after %d attempts: %w", attempts, err)
	}

	if opts.Driver == "sqlite" {
		if err := tuneSQLite(db); err != nil {
			return nil, err
		}
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported db driver %q", driver)
}

func tuneSQLite(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	// одно соединение: in-memory БД живёт ровно столько, сколько соединение,
	// а PRAGMA действует только на своё соединение
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return fmt.Errorf("enable sqlite foreign keys: %w", err)
	}
	return nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Application{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

type Admin struct {
	Username string
	Password string
	Email    string
}

// EnsureSuperuser создаёт администратора, если в системе ещё нет ни одного.
// Суперпользователь появляется только так — через конфиг, не через регистрацию.
func EnsureSuperuser(ctx context.Context, db *gorm.DB, admin Admin) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleSuperuser).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check superuser: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash superuser password: %w", err)
	}

	user := models.User{
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: string(hash),
		Role:         models.RoleSuperuser,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("superuser %q clashes with an existing account: %w", admin.Username, err)
		}
		return fmt.Errorf("create superuser: %w", err)
	}

	logger.L().Info("created default superuser", zap.String("username", admin.Username))
	return nil
}

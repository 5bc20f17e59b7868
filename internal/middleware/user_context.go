package middleware

import (
	"context"
	"errors"

	"design-studio/internal/auth"
	"design-studio/internal/logger"
	"design-studio/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// SessionUserKey — ключ идентификатора пользователя в сессии.
	SessionUserKey = "user_id"
	// SessionAuthKey — ключ отпечатка пароля, с которым сессия была открыта.
	SessionAuthKey = "auth_key"
)

type IdentityResolver interface {
	Identify(ctx context.Context, userID uint) (*auth.Identity, error)
}

// InjectUser восстанавливает личность из сессии и кладёт её в контекст запроса.
// Если пользователь удалён или сменил пароль, сессия очищается.
func InjectUser(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uid, ok := sess.Get(SessionUserKey).(uint); ok && uid > 0 {
			id, err := resolver.Identify(c.Request.Context(), uid)
			switch {
			case err == nil && sess.Get(SessionAuthKey) == id.SessionKey:
				c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
			case err == nil, errors.Is(err, store.ErrNotFound):
				clearSession(sess)
			default:
				logger.L().Error("failed to resolve session user", zap.Uint("user_id", uid), zap.Error(err))
			}
		}

		c.Next()
	}
}

// StartSession привязывает сессию к пользователю и текущему паролю.
func StartSession(sess sessions.Session, id *auth.Identity) error {
	sess.Set(SessionUserKey, id.UserID)
	sess.Set(SessionAuthKey, id.SessionKey)
	return sess.Save()
}

func clearSession(sess sessions.Session) {
	sess.Clear()
	if err := sess.Save(); err != nil {
		logger.L().Warn("failed to clear session", zap.Error(err))
	}
}

package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"airbnb-clone/models"
)

type ctxKey struct{}

const ginUserKey = "auth.user"

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// UserFromContext returns the signed-in user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(ctxKey{}).(*models.User)
	return user
}

// SetCurrentUser attaches user to both the gin context and the request context.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(ginUserKey, user)
	c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user))
}

func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ginUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return UserFromContext(c.Request.Context())
}

// Login issues a session cookie for user and marks the request signed in.
func (m *SessionManager) Login(c *gin.Context, user *models.User) error {
	token, err := m.Issue(user.ID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(m.ttl.Seconds()), "/", "", false, true)
	SetCurrentUser(c, user)
	return nil
}

func (m *SessionManager) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
	c.Set(ginUserKey, (*models.User)(nil))
	c.Request = c.Request.WithContext(WithUser(c.Request.Context(), nil))
}

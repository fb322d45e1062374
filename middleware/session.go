package middleware

import (
	"crypto/subtle"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"airbnb-clone/auth"
	"airbnb-clone/repositories"
	"airbnb-clone/utils"
)

const AdminKeyHeader = "X-Admin-Key"

// LoadUser resolves the session cookie into the current user. Requests with
// a missing, expired or stale cookie continue anonymously.
func LoadUser(sessions *auth.SessionManager, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		id, err := sessions.Parse(token)
		if err != nil {
			c.Next()
			return
		}
		user, err := users.GetByID(c.Request.Context(), id)
		if err != nil {
			logrus.WithError(err).WithField("user", id).Debug("session user not loaded")
			c.Next()
			return
		}
		auth.SetCurrentUser(c, user)
		c.Next()
	}
}

// RequireLogin sends anonymous page requests to the login form and rejects
// anonymous writes.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.CurrentUser(c) != nil {
			c.Next()
			return
		}
		if c.Request.Method == http.MethodGet {
			c.Redirect(http.StatusFound, "/users/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		utils.JSONError(c, http.StatusUnauthorized, "login required")
		c.Abort()
	}
}

// RequireAdminKey guards vocabulary administration. An unset key disables
// those routes entirely.
func RequireAdminKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			utils.JSONError(c, http.StatusForbidden, "admin API is disabled")
			c.Abort()
			return
		}
		got := c.GetHeader(AdminKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			utils.JSONError(c, http.StatusUnauthorized, "invalid admin key")
			c.Abort()
			return
		}
		c.Next()
	}
}

package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	StateCookieName = "oauth_state"
	StateParam      = "state"
	stateTTL        = 10 * time.Minute
	statePath       = "/users/login"
)

// IssueOAuthState stores a fresh random state in a short-lived cookie
// scoped to the login routes and returns it for the authorize URL.
func IssueOAuthState(c *gin.Context) string {
	state := strings.ReplaceAll(uuid.NewString(), "-", "")
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(StateCookieName, state, int(stateTTL.Seconds()), statePath, "", false, true)
	return state
}

// CheckOAuthState consumes the state cookie and reports whether it matches
// the state the provider echoed back.
func CheckOAuthState(c *gin.Context) bool {
	want, err := c.Cookie(StateCookieName)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(StateCookieName, "", -1, statePath, "", false, true)

	got := c.Query(StateParam)
	if err != nil || want == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

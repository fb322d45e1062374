package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"airbnb-clone/auth"
	"airbnb-clone/oauth"
	"airbnb-clone/services"
	"airbnb-clone/utils"
)

type OAuthController struct {
	IdentitySvc *services.IdentityService
	Sessions    *auth.SessionManager
}

func NewOAuthController(svc *services.IdentityService, sessions *auth.SessionManager) *OAuthController {
	return &OAuthController{IdentitySvc: svc, Sessions: sessions}
}

// Start (GET /users/login/:provider) sends the browser to the provider.
func (oc *OAuthController) Start(c *gin.Context) {
	target, err := oc.IdentitySvc.AuthorizeURL(c.Param("provider"), auth.IssueOAuthState(c))
	if errors.Is(err, oauth.ErrUnknownProvider) {
		utils.JSONError(c, http.StatusNotFound, "unknown login provider")
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}

// Callback (GET /users/login/:provider/callback). Every failure goes back
// to the login page, including a state that does not match the one issued
// by Start.
func (oc *OAuthController) Callback(c *gin.Context) {
	provider := c.Param("provider")
	if !auth.CheckOAuthState(c) {
		logrus.WithField("provider", provider).Warn("social login state mismatch")
		c.Redirect(http.StatusFound, "/users/login")
		return
	}
	user, err := oc.IdentitySvc.Reconcile(c.Request.Context(), provider, c.Query("code"))
	if err == nil {
		err = oc.Sessions.Login(c, user)
	}
	if err != nil {
		logrus.WithError(err).WithField("provider", provider).Info("social login rejected")
		c.Redirect(http.StatusFound, "/users/login")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

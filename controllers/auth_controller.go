package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"airbnb-clone/auth"
	"airbnb-clone/repositories"
	"airbnb-clone/services"
	"airbnb-clone/utils"
)

type AuthController struct {
	UserSvc  *services.UserService
	Sessions *auth.SessionManager
}

func NewAuthController(svc *services.UserService, sessions *auth.SessionManager) *AuthController {
	return &AuthController{UserSvc: svc, Sessions: sessions}
}

var (
	loginFields = []formField{
		{Name: "email", Type: "email", Required: true},
		{Name: "password", Type: "password", Required: true},
	}
	signupFields = []formField{
		{Name: "first_name", Type: "text"},
		{Name: "last_name", Type: "text"},
		{Name: "email", Type: "email", Required: true},
		{Name: "password", Type: "password", Required: true},
		{Name: "password_check", Type: "password", Required: true, Label: "Confirm Password"},
	}
)

func (ac *AuthController) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": loginFields, "next": c.Query("next")})
}

// Login (POST /users/login)
func (ac *AuthController) Login(c *gin.Context) {
	var in services.LoginInput
	if !bind(c, &in) {
		return
	}
	user, err := ac.UserSvc.Login(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := ac.Sessions.Login(c, user); err != nil {
		writeError(c, err)
		return
	}
	next := c.PostForm("next")
	if next == "" {
		next = c.Query("next")
	}
	c.Redirect(http.StatusFound, utils.SafeNext(next, "/"))
}

func (ac *AuthController) Logout(c *gin.Context) {
	ac.Sessions.Logout(c)
	c.Redirect(http.StatusFound, "/")
}

func (ac *AuthController) SignupForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": signupFields})
}

// Signup (POST /users/signup) creates the account and signs it in.
func (ac *AuthController) Signup(c *gin.Context) {
	var in services.SignupInput
	if !bind(c, &in) {
		return
	}
	user, err := ac.UserSvc.Signup(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := ac.Sessions.Login(c, user); err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Verify (GET|POST /users/verify/:secret) always lands on the home page.
func (ac *AuthController) Verify(c *gin.Context) {
	_, err := ac.UserSvc.Verify(c.Request.Context(), c.Param("secret"))
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		logrus.WithError(err).Error("email verification failed")
	}
	c.Redirect(http.StatusFound, "/")
}

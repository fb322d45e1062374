package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"airbnb-clone/auth"
	"airbnb-clone/models"
	"airbnb-clone/services"
	"airbnb-clone/storage"
	"airbnb-clone/utils"
)

type UserController struct {
	UserSvc *services.UserService
	Avatars storage.Store
}

func NewUserController(svc *services.UserService, avatars storage.Store) *UserController {
	return &UserController{UserSvc: svc, Avatars: avatars}
}

// profile is the public view of a user.
type profile struct {
	*models.User
	AvatarURL string `json:"avatar_url"`
}

func (uc *UserController) present(c *gin.Context, user *models.User) profile {
	p := profile{User: user}
	if user.Avatar != "" && uc.Avatars != nil {
		u, err := uc.Avatars.URL(c.Request.Context(), user.Avatar)
		if err != nil {
			logrus.WithError(err).WithField("user", user.ID).Warn("avatar url unavailable")
		}
		p.AvatarURL = u
	}
	return p
}

// account is the owner's view: the public profile plus the sign-in and
// preference fields kept off public pages.
type account struct {
	profile
	Username      string          `json:"username"`
	Email         string          `json:"email"`
	Gender        string          `json:"gender"`
	BirthDate     *datatypes.Date `json:"birth_date"`
	Language      string          `json:"language"`
	Currency      string          `json:"currency"`
	LoginMethod   string          `json:"login_method"`
	EmailVerified bool            `json:"email_verified"`
}

func (uc *UserController) presentAccount(c *gin.Context, user *models.User) account {
	return account{
		profile:       uc.present(c, user),
		Username:      user.Username,
		Email:         user.Email,
		Gender:        user.Gender,
		BirthDate:     user.BirthDate,
		Language:      user.Language,
		Currency:      user.Currency,
		LoginMethod:   user.LoginMethod,
		EmailVerified: user.EmailVerified,
	}
}

// Profile (GET /users/:id)
func (uc *UserController) Profile(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, err := uc.UserSvc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, uc.present(c, user))
}

// Me (GET /users/me)
func (uc *UserController) Me(c *gin.Context) {
	c.JSON(http.StatusOK, uc.presentAccount(c, auth.CurrentUser(c)))
}

// EditForm (GET /users/update) returns the editable profile.
func (uc *UserController) EditForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user": uc.presentAccount(c, auth.CurrentUser(c)),
		"choices": gin.H{
			"gender":   []string{models.GenderMale, models.GenderFemale, models.GenderOther},
			"language": []string{models.LanguageEnglish, models.LanguageKorean},
			"currency": []string{models.CurrencyUSD, models.CurrencyKRW},
		},
	})
}

// Update (POST /users/update)
func (uc *UserController) Update(c *gin.Context) {
	var in services.ProfileInput
	if !bind(c, &in) {
		return
	}
	user, err := uc.UserSvc.UpdateProfile(c.Request.Context(), auth.CurrentUser(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, uc.presentAccount(c, user))
}

// UpdatePassword (POST /users/update-password)
func (uc *UserController) UpdatePassword(c *gin.Context) {
	var in services.PasswordInput
	if !bind(c, &in) {
		return
	}
	user := auth.CurrentUser(c)
	if err := uc.UserSvc.UpdatePassword(c.Request.Context(), user, in); err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", user.ID))
}

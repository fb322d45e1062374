package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"airbnb-clone/models"
	"airbnb-clone/repositories"
	"airbnb-clone/storage"
)

const (
	MsgUserDoesNotExist = "User does not exist"
	MsgPasswordWrong    = "Password is wrong"
	MsgPasswordMismatch = "Password confirmation does not match"
	MsgEmailTaken       = "That email is already taken"
	MsgOldPasswordWrong = "Your old password was entered incorrectly. Please enter it again."
	MsgPasswordByEmail  = "Only accounts that sign in with e-mail can change their password."
	emailSecretLength   = 20
	minPasswordLength   = 8
	verifyPathPrefix    = "/users/verify/"
	msgAvatarDisabled   = "Avatar uploads are not available."
)

// Mailer delivers the verification link of a new local account.
type Mailer interface {
	SendVerification(recipientEmail, name, verifyLink string) error
}

type UserService struct {
	users   repositories.UserRepository
	mailer  Mailer
	avatars storage.Store
	baseURL string
}

func NewUserService(users repositories.UserRepository, mailer Mailer, baseURL string) *UserService {
	return &UserService{users: users, mailer: mailer, baseURL: strings.TrimRight(baseURL, "/")}
}

// WithAvatarStore enables avatar uploads on profile updates.
func (s *UserService) WithAvatarStore(store storage.Store) *UserService {
	s.avatars = store
	return s
}

// NewEmailSecret returns a fresh 20-character verification secret.
func NewEmailSecret() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:emailSecretLength]
}

type SignupInput struct {
	FirstName     string `json:"first_name" form:"first_name" binding:"max=150"`
	LastName      string `json:"last_name" form:"last_name" binding:"max=150"`
	Email         string `json:"email" form:"email" binding:"required,email,max=150"`
	Password      string `json:"password" form:"password" binding:"required"`
	PasswordCheck string `json:"password_check" form:"password_check" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type ProfileInput struct {
	FirstName *string `json:"first_name" form:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" form:"last_name" binding:"omitempty,max=150"`
	Bio       *string `json:"bio" form:"bio"`
	Gender    *string `json:"gender" form:"gender" binding:"omitempty,oneof=male female other"`
	BirthDate *string `json:"birth_date" form:"birth_date"`
	Language  *string `json:"language" form:"language" binding:"omitempty,oneof=en kr"`
	Currency  *string `json:"currency" form:"currency" binding:"omitempty,oneof=usd krw"`
	// Avatar is a base64 image or a data URL.
	Avatar *string `json:"avatar" form:"avatar"`
}

type PasswordInput struct {
	OldPassword  string `json:"old_password" form:"old_password" binding:"required"`
	NewPassword1 string `json:"new_password1" form:"new_password1" binding:"required"`
	NewPassword2 string `json:"new_password2" form:"new_password2" binding:"required"`
}

// Signup creates an unverified e-mail account and mails its verification
// link. A mail failure is logged; the account stays.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	fe := FormErrors{}

	if _, err := s.users.GetByUsername(ctx, email); err == nil {
		fe.Add("email", MsgEmailTaken)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if in.Password != in.PasswordCheck {
		fe.Add("password_check", MsgPasswordMismatch)
	}
	for _, msg := range validatePassword(in.Password, email, in.FirstName, in.LastName) {
		fe.Add("password", msg)
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	user := &models.User{
		Username:    email,
		Email:       email,
		Password:    string(hash),
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		LoginMethod: models.LoginEmail,
		EmailSecret: NewEmailSecret(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, FormErrors{"email": {MsgEmailTaken}}
		}
		return nil, err
	}

	if s.mailer != nil {
		link := s.baseURL + verifyPathPrefix + user.EmailSecret
		if err := s.mailer.SendVerification(user.Email, user.FirstName, link); err != nil {
			logrus.WithError(err).WithField("user", user.ID).Warn("verification mail not sent")
		}
	}
	logrus.WithField("user", user.ID).Info("local account created")
	return user, nil
}

// Login authenticates an e-mail account. An unknown e-mail and a wrong
// password report different messages.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(in.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, FormErrors{"email": {MsgUserDoesNotExist}}
	}
	if err != nil {
		return nil, err
	}
	if !checkPassword(user, in.Password) {
		return nil, FormErrors{"password": {MsgPasswordWrong}}
	}
	return user, nil
}

// Verify completes e-mail verification for the account holding secret.
// An unknown secret returns repositories.ErrNotFound and changes nothing.
func (s *UserService) Verify(ctx context.Context, secret string) (*models.User, error) {
	user, err := s.users.GetByEmailSecret(ctx, strings.TrimSpace(secret))
	if err != nil {
		return nil, err
	}
	user.EmailVerified = true
	user.EmailSecret = ""
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	logrus.WithField("user", user.ID).Info("email verified")
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile validates the whole form before it touches the user or the
// avatar store; a rejected form changes neither.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, in ProfileInput) (*models.User, error) {
	fe := FormErrors{}

	var birthDate *datatypes.Date
	if in.BirthDate != nil {
		if raw := strings.TrimSpace(*in.BirthDate); raw != "" {
			if t, err := time.Parse("2006-01-02", raw); err != nil {
				fe.Add("birth_date", "Enter a valid date.")
			} else {
				d := datatypes.Date(t)
				birthDate = &d
			}
		}
	}

	var avatar []byte
	var avatarType string
	if in.Avatar != nil && *in.Avatar != "" {
		if s.avatars == nil {
			fe.Add("avatar", msgAvatarDisabled)
		} else {
			var problem string
			avatar, avatarType, problem = decodeAvatarImage(*in.Avatar)
			if problem != "" {
				fe.Add("avatar", problem)
			}
		}
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	if avatar != nil {
		key, err := storeAvatar(ctx, s.avatars, user, avatar, avatarType)
		if err != nil {
			return nil, err
		}
		user.Avatar = key
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Gender != nil {
		user.Gender = *in.Gender
	}
	if in.Language != nil {
		user.Language = *in.Language
	}
	if in.Currency != nil {
		user.Currency = *in.Currency
	}
	if in.BirthDate != nil {
		user.BirthDate = birthDate
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdatePassword(ctx context.Context, user *models.User, in PasswordInput) error {
	if user.LoginMethod != models.LoginEmail {
		return FormErrors{NonFieldErrors: {MsgPasswordByEmail}}
	}
	fe := FormErrors{}
	if !checkPassword(user, in.OldPassword) {
		fe.Add("old_password", MsgOldPasswordWrong)
	}
	if in.NewPassword1 != in.NewPassword2 {
		fe.Add("new_password2", "The two password fields didn't match.")
	}
	for _, msg := range validatePassword(in.NewPassword1, user.Email, user.FirstName, user.LastName) {
		fe.Add("new_password2", msg)
	}
	if err := fe.Err(); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword1), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	user.Password = string(hash)
	return s.users.Update(ctx, user)
}

func checkPassword(user *models.User, password string) bool {
	if !user.HasUsablePassword() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "12345678": {}, "123456789": {}, "1234567890": {},
	"qwertyuiop": {}, "iloveyou": {}, "sunshine": {}, "princess": {}, "football": {},
	"baseball": {}, "welcome1": {}, "abcdefgh": {}, "testtest": {}, "qwerty123": {},
	"11111111": {}, "00000000": {}, "superman": {}, "trustno1": {}, "letmein1": {},
}

// validatePassword applies the account password policy and returns every
// violated rule.
func validatePassword(password string, attrs ...string) []string {
	var msgs []string
	if len(password) < minPasswordLength {
		msgs = append(msgs, fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	if password != "" && strings.Trim(password, "0123456789") == "" {
		msgs = append(msgs, "This password is entirely numeric.")
	}
	lower := strings.ToLower(password)
	if _, ok := commonPasswords[lower]; ok {
		msgs = append(msgs, "This password is too common.")
	}
	for _, attr := range attrs {
		if tooSimilar(lower, attr) {
			msgs = append(msgs, "The password is too similar to your personal information.")
			break
		}
	}
	return msgs
}

func tooSimilar(password, attr string) bool {
	attr = strings.ToLower(strings.TrimSpace(attr))
	if addr, err := mail.ParseAddress(attr); err == nil {
		attr = addr.Address[:strings.Index(addr.Address, "@")]
	}
	if len(attr) < 3 || password == "" {
		return false
	}
	return strings.Contains(password, attr) || strings.Contains(attr, password)
}

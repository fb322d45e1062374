package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"airbnb-clone/models"
	"airbnb-clone/oauth"
	"airbnb-clone/repositories"
	"airbnb-clone/storage"
)

var (
	ErrMissingCode         = errors.New("authorization code missing")
	ErrMissingEmail        = errors.New("identity provider returned no e-mail")
	ErrLoginMethodMismatch = errors.New("account uses a different login method")
)

// IdentityService turns a provider callback into a local account.
type IdentityService struct {
	users     repositories.UserRepository
	providers oauth.Registry
	avatars   storage.Store
	client    *http.Client
}

func NewIdentityService(users repositories.UserRepository, providers oauth.Registry, avatars storage.Store, client *http.Client) *IdentityService {
	return &IdentityService{users: users, providers: providers, avatars: avatars, client: client}
}

// AuthorizeURL is where the login handler sends the browser. The provider
// echoes state back on the callback.
func (s *IdentityService) AuthorizeURL(provider, state string) (string, error) {
	p, err := s.providers.Get(provider)
	if err != nil {
		return "", err
	}
	return p.AuthCodeURL(state), nil
}

// Reconcile exchanges code with the provider and resolves the profile to
// exactly one local user. Any error means the login is rejected; nothing
// is written on a rejected path.
func (s *IdentityService) Reconcile(ctx context.Context, provider, code string) (*models.User, error) {
	p, err := s.providers.Get(provider)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(code) == "" {
		return nil, ErrMissingCode
	}

	token, err := p.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	profile, err := p.FetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}
	profile.Email = strings.TrimSpace(profile.Email)
	if profile.Email == "" {
		return nil, ErrMissingEmail
	}

	user, err := s.resolve(ctx, p.Name(), profile)
	if errors.Is(err, repositories.ErrDuplicate) {
		// Lost a race with a concurrent callback for the same e-mail.
		user, err = s.resolve(ctx, p.Name(), profile)
	}
	return user, err
}

func (s *IdentityService) resolve(ctx context.Context, provider string, profile *oauth.Profile) (*models.User, error) {
	existing, err := s.users.GetByUsername(ctx, profile.Email)
	switch {
	case err == nil:
		if existing.LoginMethod != provider {
			logrus.WithFields(logrus.Fields{
				"user":     existing.ID,
				"provider": provider,
				"method":   existing.LoginMethod,
			}).Info("social login rejected: login method mismatch")
			return nil, ErrLoginMethodMismatch
		}
		return existing, nil
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	user := &models.User{
		Username:      profile.Email,
		Email:         profile.Email,
		FirstName:     profile.DisplayName,
		Bio:           profile.Bio,
		LoginMethod:   provider,
		EmailVerified: true,
		EmailSecret:   "",
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user": user.ID, "provider": provider}).Info("social account created")

	s.attachAvatar(ctx, user, profile.AvatarURL)
	return user, nil
}

// attachAvatar is best effort: the account is kept without an avatar when
// the download or the store fails.
func (s *IdentityService) attachAvatar(ctx context.Context, user *models.User, src string) {
	if src == "" || s.avatars == nil {
		return
	}
	log := logrus.WithFields(logrus.Fields{"user": user.ID, "avatar_url": src})

	key := AvatarKey(user)
	if err := storage.StoreFromURL(ctx, s.client, s.avatars, src, key); err != nil {
		log.WithError(err).Warn("avatar not stored")
		return
	}
	user.Avatar = key
	if err := s.users.Update(ctx, user); err != nil {
		log.WithError(err).Warn("avatar key not saved")
		user.Avatar = ""
	}
}

var avatarNameCleaner = strings.NewReplacer("/", "-", "\\", "-", "..", "-")

// AvatarKey is the storage key of a user's avatar.
func AvatarKey(user *models.User) string {
	return fmt.Sprintf("avatars/pk-%d-%s-avatar", user.ID, avatarNameCleaner.Replace(user.FirstName))
}

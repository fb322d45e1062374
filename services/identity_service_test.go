package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-clone/models"
	"airbnb-clone/oauth"
	"airbnb-clone/repositories"
)

type identityFixture struct {
	svc    *IdentityService
	users  repositories.UserRepository
	github *fakeProvider
	kakao  *fakeProvider
	store  *memStore
	count  func() int64
}

func newIdentityFixture(t *testing.T) identityFixture {
	db := newTestDB(t)
	users := repositories.NewUserRepository(db)
	gh := &fakeProvider{name: oauth.GithubName, profile: oauth.Profile{ExternalID: "newbie", Email: "new@x.com", DisplayName: "Newbie", Bio: "hello"}}
	kk := &fakeProvider{name: oauth.KakaoName, profile: oauth.Profile{ExternalID: "7", Email: "k@x.com", DisplayName: "Kim"}}
	store := newMemStore()
	return identityFixture{
		svc:    NewIdentityService(users, oauth.NewRegistry(gh, kk), store, nil),
		users:  users,
		github: gh,
		kakao:  kk,
		store:  store,
		count: func() int64 {
			var n int64
			require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
			return n
		},
	}
}

func TestReconcile_CreatesVerifiedAccount(t *testing.T) {
	f := newIdentityFixture(t)

	user, err := f.svc.Reconcile(context.Background(), "github", "good")
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", user.Username)
	assert.Equal(t, "new@x.com", user.Email)
	assert.Equal(t, "Newbie", user.FirstName)
	assert.Equal(t, "hello", user.Bio)
	assert.Equal(t, models.LoginGithub, user.LoginMethod)
	assert.True(t, user.EmailVerified)
	assert.Empty(t, user.EmailSecret)
	assert.False(t, user.HasUsablePassword())

	stored, err := f.users.GetByUsername(context.Background(), "new@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
	assert.True(t, stored.EmailVerified)
}

func TestReconcile_IsIdempotentForSameProvider(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	first, err := f.svc.Reconcile(ctx, "github", "good")
	require.NoError(t, err)
	second, err := f.svc.Reconcile(ctx, "github", "good")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(1), f.count())
}

func TestReconcile_RejectsLoginMethodMismatch(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	local := &models.User{Username: "new@x.com", Email: "new@x.com", FirstName: "Local", LoginMethod: models.LoginEmail, EmailSecret: "s3cr3t"}
	require.NoError(t, f.users.Create(ctx, local))

	_, err := f.svc.Reconcile(ctx, "github", "good")
	assert.ErrorIs(t, err, ErrLoginMethodMismatch)

	stored, err := f.users.GetByID(ctx, local.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoginEmail, stored.LoginMethod)
	assert.Equal(t, "Local", stored.FirstName)
	assert.False(t, stored.EmailVerified)
	assert.Equal(t, "s3cr3t", stored.EmailSecret)
	assert.Equal(t, int64(1), f.count())

	f.kakao.profile.Email = "new@x.com"
	_, err = f.svc.Reconcile(ctx, "kakao", "good")
	assert.ErrorIs(t, err, ErrLoginMethodMismatch)
}

func TestReconcile_NeverCreatesWithoutEmail(t *testing.T) {
	f := newIdentityFixture(t)
	f.github.profile.Email = "   "

	_, err := f.svc.Reconcile(context.Background(), "github", "good")
	assert.ErrorIs(t, err, ErrMissingEmail)
	assert.Equal(t, int64(0), f.count())
}

func TestReconcile_Rejections(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	_, err := f.svc.Reconcile(ctx, "github", "")
	assert.ErrorIs(t, err, ErrMissingCode)
	assert.Zero(t, f.github.exchanges, "no provider call without a code")

	_, err = f.svc.Reconcile(ctx, "github", "bad")
	assert.ErrorIs(t, err, oauth.ErrTokenExchange)

	_, err = f.svc.Reconcile(ctx, "facebook", "good")
	assert.ErrorIs(t, err, oauth.ErrUnknownProvider)

	f.kakao.profileErr = oauth.ErrProviderUnavailable
	_, err = f.svc.Reconcile(ctx, "kakao", "good")
	assert.ErrorIs(t, err, oauth.ErrProviderUnavailable)

	assert.Equal(t, int64(0), f.count())
}

func TestReconcile_StoresAvatar(t *testing.T) {
	img := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer img.Close()

	f := newIdentityFixture(t)
	f.github.profile.AvatarURL = img.URL + "/a.png"

	user, err := f.svc.Reconcile(context.Background(), "github", "good")
	require.NoError(t, err)
	key := AvatarKey(user)
	assert.Equal(t, "avatars/pk-1-Newbie-avatar", key)
	assert.Equal(t, key, user.Avatar)
	assert.Equal(t, []byte("png-bytes"), f.store.objects[key])

	stored, err := f.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, key, stored.Avatar)
}

func TestReconcile_AvatarFailureIsNotFatal(t *testing.T) {
	img := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer img.Close()

	f := newIdentityFixture(t)
	f.github.profile.AvatarURL = img.URL + "/missing.png"

	user, err := f.svc.Reconcile(context.Background(), "github", "good")
	require.NoError(t, err)
	assert.Empty(t, user.Avatar)
	assert.Empty(t, f.store.objects)
}

// racingUsers reports the username as free once, then fails the insert the
// way a concurrent winner would.
type racingUsers struct {
	repositories.UserRepository
	raced bool
}

func (r *racingUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if !r.raced {
		return nil, repositories.ErrNotFound
	}
	return r.UserRepository.GetByUsername(ctx, username)
}

func (r *racingUsers) Create(ctx context.Context, user *models.User) error {
	if !r.raced {
		r.raced = true
		winner := *user
		if err := r.UserRepository.Create(ctx, &winner); err != nil {
			return err
		}
	}
	return r.UserRepository.Create(ctx, user)
}

func TestReconcile_UniqueViolationFallsBackToExistingAccount(t *testing.T) {
	f := newIdentityFixture(t)
	users := &racingUsers{UserRepository: f.users}
	svc := NewIdentityService(users, oauth.NewRegistry(f.github), nil, nil)

	user, err := svc.Reconcile(context.Background(), "github", "good")
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", user.Username)
	assert.Equal(t, int64(1), f.count())
}

func TestAuthorizeURL(t *testing.T) {
	f := newIdentityFixture(t)
	u, err := f.svc.AuthorizeURL("kakao", "abc")
	require.NoError(t, err)
	assert.Contains(t, u, "authorize")
	assert.Contains(t, u, "state=abc")

	_, err = f.svc.AuthorizeURL("twitter", "abc")
	assert.ErrorIs(t, err, oauth.ErrUnknownProvider)
}

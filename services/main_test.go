package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"airbnb-clone/config"
	"airbnb-clone/models"
	"airbnb-clone/oauth"
	"airbnb-clone/repositories"
)

var dbSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	n := atomic.AddInt64(&dbSeq, 1)
	db, err := config.OpenSQLite(fmt.Sprintf("file:services_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", n))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newRoomService(db *gorm.DB) *RoomService {
	return NewRoomService(
		repositories.NewRoomRepository(db),
		repositories.NewRoomTypeRepository(db),
		repositories.NewAmenityRepository(db),
		repositories.NewFacilityRepository(db),
		repositories.NewHouseRuleRepository(db),
	)
}

var roomClock = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func seedRooms(t *testing.T, db *gorm.DB, host *models.User, n int, mutate func(i int, r *models.Room)) []models.Room {
	t.Helper()
	repo := repositories.NewRoomRepository(db)
	rooms := make([]models.Room, 0, n)
	for i := 0; i < n; i++ {
		roomClock = roomClock.Add(time.Minute)
		r := models.Room{Name: fmt.Sprintf("room %d", i), Country: "KR", City: "Seoul", HostID: host.ID, CreatedAt: roomClock}
		if mutate != nil {
			mutate(i, &r)
		}
		require.NoError(t, repo.Create(context.Background(), &r))
		rooms = append(rooms, r)
	}
	return rooms
}

func createUser(t *testing.T, db *gorm.DB, u models.User) *models.User {
	t.Helper()
	if u.Email == "" {
		u.Email = u.Username
	}
	if u.LoginMethod == "" {
		u.LoginMethod = models.LoginEmail
	}
	require.NoError(t, repositories.NewUserRepository(db).Create(context.Background(), &u))
	return &u
}

type sentMail struct {
	to, name, link string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendVerification(to, name, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, name, link})
	return m.err
}

// fakeProvider answers "good" codes with a fixed profile.
type fakeProvider struct {
	name        string
	profile     oauth.Profile
	exchangeErr error
	profileErr  error
	exchanges   int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.example/authorize?client_id=x&state=" + state
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (string, error) {
	p.exchanges++
	if p.exchangeErr != nil {
		return "", p.exchangeErr
	}
	if code != "good" {
		return "", oauth.ErrTokenExchange
	}
	return "tok", nil
}

func (p *fakeProvider) FetchProfile(_ context.Context, token string) (*oauth.Profile, error) {
	if p.profileErr != nil {
		return nil, p.profileErr
	}
	profile := p.profile
	profile.Provider = p.name
	return &profile, nil
}

// memStore is an in-memory storage.Store.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (s *memStore) Put(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memStore) URL(_ context.Context, key string) (string, error) {
	return "/media/" + key, nil
}

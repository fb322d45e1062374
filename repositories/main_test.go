package repositories

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"airbnb-clone/config"
	"airbnb-clone/models"
)

var dbSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	n := atomic.AddInt64(&dbSeq, 1)
	db, err := config.OpenSQLite(fmt.Sprintf("file:repositories_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", n))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, superhost bool) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username, LoginMethod: models.LoginEmail, IsSuperhost: superhost}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func createItem(t *testing.T, repo VocabularyRepository, name string) uint {
	t.Helper()
	item, err := repo.Create(context.Background(), name)
	require.NoError(t, err)
	return item.ID
}

var roomClock = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func createRoom(t *testing.T, db *gorm.DB, room models.Room) *models.Room {
	t.Helper()
	roomClock = roomClock.Add(time.Minute)
	room.CreatedAt = roomClock
	if room.Name == "" {
		room.Name = "room"
	}
	if room.Country == "" {
		room.Country = "KR"
	}
	require.NoError(t, NewRoomRepository(db).Create(context.Background(), &room))
	return &room
}

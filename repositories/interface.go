package repositories

import (
	"context"

	"airbnb-clone/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmailSecret(ctx context.Context, secret string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id uint) (*models.Room, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, offset, limit int) ([]models.Room, error)
	Search(ctx context.Context, filter SearchFilter) ([]models.Room, error)
	CountSearch(ctx context.Context, filter SearchFilter) (int64, error)
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id uint) error

	AddAmenity(ctx context.Context, roomID, amenityID uint) error
	RemoveAmenity(ctx context.Context, roomID, amenityID uint) error
	AddFacility(ctx context.Context, roomID, facilityID uint) error
	RemoveFacility(ctx context.Context, roomID, facilityID uint) error
	AddHouseRule(ctx context.Context, roomID, houseRuleID uint) error
	RemoveHouseRule(ctx context.Context, roomID, houseRuleID uint) error
}

// VocabularyRepository serves one reference vocabulary (room types,
// amenities, facilities or house rules).
type VocabularyRepository interface {
	Kind() string
	List(ctx context.Context) ([]models.Item, error)
	Create(ctx context.Context, name string) (*models.Item, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) error
}

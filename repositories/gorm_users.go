package repositories

import (
	"context"

	"gorm.io/gorm"

	"airbnb-clone/models"
)

type userGormRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userGormRepository{db: db}
}

func (r *userGormRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, "create user")
}

func (r *userGormRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "get user")
	}
	return &user, nil
}

func (r *userGormRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err, "get user by username")
	}
	return &user, nil
}

// GetByEmailSecret never matches the blank secret of verified accounts.
func (r *userGormRepository) GetByEmailSecret(ctx context.Context, secret string) (*models.User, error) {
	if secret == "" {
		return nil, translate(gorm.ErrRecordNotFound, "get user by email secret")
	}
	var user models.User
	if err := r.db.WithContext(ctx).Where("email_secret = ?", secret).First(&user).Error; err != nil {
		return nil, translate(err, "get user by email secret")
	}
	return &user, nil
}

func (r *userGormRepository) Update(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Save(user).Error, "update user")
}

package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"airbnb-clone/models"
)

// listingOrder is the default order of every room listing.
const listingOrder = "rooms.created_at ASC, rooms.id ASC"

type roomGormRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomGormRepository{db: db}
}

func (r *roomGormRepository) Create(ctx context.Context, room *models.Room) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(room).Error, "create room")
}

func (r *roomGormRepository) GetByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Preload("Host").
		Preload("RoomType").
		Preload("Amenities").
		Preload("Facilities").
		Preload("HouseRules").
		First(&room, id).Error
	if err != nil {
		return nil, translate(err, "get room")
	}
	return &room, nil
}

func (r *roomGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Room{}).Count(&n).Error
	return n, translate(err, "count rooms")
}

func (r *roomGormRepository) List(ctx context.Context, offset, limit int) ([]models.Room, error) {
	var rooms []models.Room
	q := r.db.WithContext(ctx).Preload("RoomType").Order(listingOrder)
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&rooms).Error; err != nil {
		return nil, translate(err, "list rooms")
	}
	return rooms, nil
}

func (r *roomGormRepository) Search(ctx context.Context, filter SearchFilter) ([]models.Room, error) {
	var rooms []models.Room
	q := applySearch(r.db.WithContext(ctx).Model(&models.Room{}), filter).
		Preload("RoomType").
		Order(listingOrder)
	if filter.Limit > 0 {
		q = q.Offset(filter.Offset).Limit(filter.Limit)
	}
	if err := q.Find(&rooms).Error; err != nil {
		return nil, translate(err, "search rooms")
	}
	return rooms, nil
}

// CountSearch returns the size of the full result set for filter.
func (r *roomGormRepository) CountSearch(ctx context.Context, filter SearchFilter) (int64, error) {
	var n int64
	err := applySearch(r.db.WithContext(ctx).Model(&models.Room{}), filter).Count(&n).Error
	return n, translate(err, "count search")
}

func (r *roomGormRepository) Update(ctx context.Context, room *models.Room) error {
	res := r.db.WithContext(ctx).Omit(clause.Associations).Save(room)
	return translate(res.Error, "update room")
}

func (r *roomGormRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, join := range []interface{}{&models.RoomAmenity{}, &models.RoomFacility{}, &models.RoomHouseRule{}} {
			if err := tx.Where("room_id = ?", id).Delete(join).Error; err != nil {
				return translate(err, "delete room joins")
			}
		}
		res := tx.Delete(&models.Room{}, id)
		if res.Error != nil {
			return translate(res.Error, "delete room")
		}
		if res.RowsAffected == 0 {
			return errors.Wrap(ErrNotFound, "delete room")
		}
		return nil
	})
}

func (r *roomGormRepository) AddAmenity(ctx context.Context, roomID, amenityID uint) error {
	return r.addJoin(ctx, &models.RoomAmenity{RoomID: roomID, AmenityID: amenityID})
}

func (r *roomGormRepository) RemoveAmenity(ctx context.Context, roomID, amenityID uint) error {
	return r.removeJoin(ctx, &models.RoomAmenity{}, "amenity_id", roomID, amenityID)
}

func (r *roomGormRepository) AddFacility(ctx context.Context, roomID, facilityID uint) error {
	return r.addJoin(ctx, &models.RoomFacility{RoomID: roomID, FacilityID: facilityID})
}

func (r *roomGormRepository) RemoveFacility(ctx context.Context, roomID, facilityID uint) error {
	return r.removeJoin(ctx, &models.RoomFacility{}, "facility_id", roomID, facilityID)
}

func (r *roomGormRepository) AddHouseRule(ctx context.Context, roomID, houseRuleID uint) error {
	return r.addJoin(ctx, &models.RoomHouseRule{RoomID: roomID, HouseRuleID: houseRuleID})
}

func (r *roomGormRepository) RemoveHouseRule(ctx context.Context, roomID, houseRuleID uint) error {
	return r.removeJoin(ctx, &models.RoomHouseRule{}, "house_rule_id", roomID, houseRuleID)
}

// addJoin is idempotent: adding an existing membership is not an error.
func (r *roomGormRepository) addJoin(ctx context.Context, row interface{}) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
	return translate(err, "add room membership")
}

func (r *roomGormRepository) removeJoin(ctx context.Context, model interface{}, column string, roomID, id uint) error {
	err := r.db.WithContext(ctx).Where("room_id = ? AND "+column+" = ?", roomID, id).Delete(model).Error
	return translate(err, "remove room membership")
}

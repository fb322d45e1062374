package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"airbnb-clone/models"
)

// Vocabulary kinds, also used as URL segments.
const (
	KindRoomTypes  = "room-types"
	KindAmenities  = "amenities"
	KindFacilities = "facilities"
	KindHouseRules = "house-rules"
)

type vocabularyGormRepository struct {
	db    *gorm.DB
	kind  string
	table string
	// joinTable/joinColumn locate the room memberships to clear on delete;
	// room types are a nullable FK on rooms instead.
	joinTable  string
	joinColumn string
}

func NewRoomTypeRepository(db *gorm.DB) VocabularyRepository {
	return &vocabularyGormRepository{db: db, kind: KindRoomTypes, table: "room_types"}
}

func NewAmenityRepository(db *gorm.DB) VocabularyRepository {
	return &vocabularyGormRepository{db: db, kind: KindAmenities, table: "amenities", joinTable: "room_amenities", joinColumn: "amenity_id"}
}

func NewFacilityRepository(db *gorm.DB) VocabularyRepository {
	return &vocabularyGormRepository{db: db, kind: KindFacilities, table: "facilities", joinTable: "room_facilities", joinColumn: "facility_id"}
}

func NewHouseRuleRepository(db *gorm.DB) VocabularyRepository {
	return &vocabularyGormRepository{db: db, kind: KindHouseRules, table: "house_rules", joinTable: "room_house_rules", joinColumn: "house_rule_id"}
}

func (r *vocabularyGormRepository) Kind() string {
	return r.kind
}

func (r *vocabularyGormRepository) List(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).Table(r.table).Order("name ASC, id ASC").Find(&items).Error
	if err != nil {
		return nil, translate(err, "list "+r.kind)
	}
	return items, nil
}

func (r *vocabularyGormRepository) Create(ctx context.Context, name string) (*models.Item, error) {
	item := models.Item{Name: name}
	if err := r.db.WithContext(ctx).Table(r.table).Create(&item).Error; err != nil {
		return nil, translate(err, "create "+r.kind)
	}
	return &item, nil
}

func (r *vocabularyGormRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Table(r.table).Where("id = ?", id).Count(&n).Error
	if err != nil {
		return false, translate(err, "lookup "+r.kind)
	}
	return n > 0, nil
}

func (r *vocabularyGormRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.joinTable != "" {
			if err := tx.Exec("DELETE FROM "+r.joinTable+" WHERE "+r.joinColumn+" = ?", id).Error; err != nil {
				return translate(err, "delete "+r.kind+" memberships")
			}
		} else {
			// Mirrors ON DELETE SET NULL for databases running without FK enforcement.
			if err := tx.Exec("UPDATE rooms SET room_type_id = NULL WHERE room_type_id = ?", id).Error; err != nil {
				return translate(err, "detach "+r.kind)
			}
		}
		res := tx.Exec("DELETE FROM "+r.table+" WHERE id = ?", id)
		if res.Error != nil {
			return translate(res.Error, "delete "+r.kind)
		}
		if res.RowsAffected == 0 {
			return errors.Wrap(ErrNotFound, "delete "+r.kind)
		}
		return nil
	})
}

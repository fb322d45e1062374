package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Room struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string         `gorm:"size:140;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Country     string         `gorm:"size:2;index" json:"country"`
	City        string         `gorm:"size:80;index" json:"city"`
	Price       int            `json:"price"`
	Address     string         `gorm:"size:140" json:"address"`
	Guests      int            `json:"guests"`
	Beds        int            `json:"beds"`
	Bedrooms    int            `json:"bedrooms"`
	Baths       int            `json:"baths"`
	CheckIn     datatypes.Time `json:"check_in"`
	CheckOut    datatypes.Time `json:"check_out"`
	InstantBook bool           `gorm:"default:false" json:"instant_book"`

	HostID uint `gorm:"not null;index" json:"host_id"`
	Host   User `gorm:"foreignKey:HostID;constraint:OnDelete:CASCADE" json:"host"`

	// Nullable so removing a room type leaves its rooms in place.
	RoomTypeID *uint     `gorm:"column:room_type_id;index" json:"room_type_id"`
	RoomType   *RoomType `gorm:"foreignKey:RoomTypeID;constraint:OnDelete:SET NULL" json:"room_type,omitempty"`

	Amenities  []Amenity   `gorm:"many2many:room_amenities" json:"amenities"`
	Facilities []Facility  `gorm:"many2many:room_facilities" json:"facilities"`
	HouseRules []HouseRule `gorm:"many2many:room_house_rules" json:"house_rules"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r Room) String() string {
	return r.Name
}

// Join rows. They are written explicitly by the room repository instead of
// going through gorm's association mode.

type RoomAmenity struct {
	RoomID    uint `gorm:"primaryKey"`
	AmenityID uint `gorm:"primaryKey"`
}

type RoomFacility struct {
	RoomID     uint `gorm:"primaryKey"`
	FacilityID uint `gorm:"primaryKey"`
}

type RoomHouseRule struct {
	RoomID      uint `gorm:"primaryKey"`
	HouseRuleID uint `gorm:"primaryKey"`
}

// SetupJoinTables registers the explicit join rows for Room's many-to-many
// fields. It must run before AutoMigrate.
func SetupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Room{}, "Amenities", &RoomAmenity{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&Room{}, "Facilities", &RoomFacility{}); err != nil {
		return err
	}
	return db.SetupJoinTable(&Room{}, "HouseRules", &RoomHouseRule{})
}

// All returns every model in parent -> child migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&RoomType{},
		&Amenity{},
		&Facility{},
		&HouseRule{},
		&Room{},
		&RoomAmenity{},
		&RoomFacility{},
		&RoomHouseRule{},
	}
}

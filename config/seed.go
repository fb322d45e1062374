package config

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"airbnb-clone/models"
)

var (
	defaultRoomTypes  = []string{"Entire place", "Private room", "Hotel room", "Shared room"}
	defaultAmenities  = []string{"Air conditioning", "Kitchen", "Washer", "Wifi", "Heating", "TV", "Hair dryer", "Iron"}
	defaultFacilities = []string{"Free parking on premises", "Gym", "Hot tub", "Pool"}
	defaultHouseRules = []string{"No smoking", "No pets", "No parties or events"}
)

// SeedDatabase fills each empty vocabulary table with its defaults.
func SeedDatabase(db *gorm.DB) {
	seedItems(db, "room_types", defaultRoomTypes)
	seedItems(db, "amenities", defaultAmenities)
	seedItems(db, "facilities", defaultFacilities)
	seedItems(db, "house_rules", defaultHouseRules)
}

func seedItems(db *gorm.DB, table string, names []string) {
	log := logrus.WithField("table", table)

	var count int64
	if err := db.Table(table).Count(&count).Error; err != nil {
		log.WithError(err).Warn("seed: count failed")
		return
	}
	if count > 0 {
		return
	}

	items := make([]models.Item, 0, len(names))
	for _, name := range names {
		items = append(items, models.Item{Name: name})
	}
	if err := db.Table(table).Create(&items).Error; err != nil {
		log.WithError(err).Warn("seed: create failed")
		return
	}
	log.Infof("seeded %d rows", len(items))
}

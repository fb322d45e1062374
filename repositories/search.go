package repositories

import (
	"strings"

	"gorm.io/gorm"
)

// SearchFilter holds normalised search criteria. Zero values mean "no
// constraint" except Country, which the caller defaults.
type SearchFilter struct {
	City        string
	Country     string
	RoomType    uint
	Price       int
	Guests      int
	Beds        int
	Bedrooms    int
	Baths       int
	InstantBook bool
	Superhost   bool
	Amenities   []uint
	Facilities  []uint

	Offset int
	Limit  int
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// applySearch narrows q to the rooms matching every present criterion.
func applySearch(q *gorm.DB, f SearchFilter) *gorm.DB {
	if city := strings.TrimSpace(f.City); city != "" {
		q = q.Where("LOWER(rooms.city) LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.ToLower(city))+"%")
	}
	if f.Country != "" {
		q = q.Where("rooms.country = ?", f.Country)
	}
	if f.RoomType > 0 {
		q = q.Where("rooms.room_type_id = ?", f.RoomType)
	}
	if f.Price > 0 {
		q = q.Where("rooms.price <= ?", f.Price)
	}
	if f.Guests > 0 {
		q = q.Where("rooms.guests >= ?", f.Guests)
	}
	if f.Beds > 0 {
		q = q.Where("rooms.beds >= ?", f.Beds)
	}
	if f.Bedrooms > 0 {
		q = q.Where("rooms.bedrooms >= ?", f.Bedrooms)
	}
	if f.Baths > 0 {
		q = q.Where("rooms.baths >= ?", f.Baths)
	}
	if f.InstantBook {
		q = q.Where("rooms.instant_book = ?", true)
	}
	if f.Superhost {
		q = q.Where("rooms.host_id IN (?)",
			q.Session(&gorm.Session{NewDB: true}).Table("users").Select("id").Where("is_superhost = ?", true))
	}
	if ids := uniqueIDs(f.Amenities); len(ids) > 0 {
		q = q.Where("rooms.id IN (?)", containing(q, "room_amenities", "amenity_id", ids))
	}
	if ids := uniqueIDs(f.Facilities); len(ids) > 0 {
		q = q.Where("rooms.id IN (?)", containing(q, "room_facilities", "facility_id", ids))
	}
	return q
}

// containing selects the rooms whose join rows hold every id, not just one.
func containing(q *gorm.DB, table, column string, ids []uint) *gorm.DB {
	return q.Session(&gorm.Session{NewDB: true}).
		Table(table).
		Select("room_id").
		Where(column+" IN ?", ids).
		Group("room_id").
		Having("COUNT(DISTINCT "+column+") = ?", len(ids))
}

func uniqueIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

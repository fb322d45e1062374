package models

// RoomType: entire place, private room, hotel room, ...
type RoomType struct {
	Item
}

type Amenity struct {
	Item
}

func (Amenity) TableName() string {
	return "amenities"
}

type Facility struct {
	Item
}

func (Facility) TableName() string {
	return "facilities"
}

type HouseRule struct {
	Item
}

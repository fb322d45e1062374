package services

import (
	"net/url"
	"strconv"
	"strings"

	"airbnb-clone/repositories"
)

const (
	DefaultCountry = "KR"
	AnywhereLabel  = "Anywhere"
)

// SearchQuery is the normalised search form. It is echoed back with the
// results so a client can re-render the form.
type SearchQuery struct {
	City        string `json:"city"`
	CityLabel   string `json:"city_label"`
	Country     string `json:"country"`
	RoomType    uint   `json:"room_type,omitempty"`
	Price       int    `json:"price,omitempty"`
	Guests      int    `json:"guests,omitempty"`
	Beds        int    `json:"beds,omitempty"`
	Bedrooms    int    `json:"bedrooms,omitempty"`
	Baths       int    `json:"baths,omitempty"`
	InstantBook bool   `json:"instant_book"`
	Superhost   bool   `json:"is_superhost"`
	Amenities   []uint `json:"amenities"`
	Facilities  []uint `json:"facilities"`
}

// ParseSearchQuery never fails: anything it cannot read is treated as absent.
func ParseSearchQuery(values url.Values) SearchQuery {
	q := SearchQuery{
		City:        strings.TrimSpace(values.Get("city")),
		Country:     strings.ToUpper(strings.TrimSpace(values.Get("country"))),
		RoomType:    uint(positiveInt(values.Get("room_type"))),
		Price:       positiveInt(values.Get("price")),
		Guests:      positiveInt(values.Get("guests")),
		Beds:        positiveInt(values.Get("beds")),
		Bedrooms:    positiveInt(values.Get("bedrooms")),
		Baths:       positiveInt(values.Get("baths")),
		InstantBook: truthy(values.Get("instant_book")),
		Superhost:   truthy(values.Get("is_superhost")) || truthy(values.Get("superhost")),
		Amenities:   idList(values["amenities"]),
		Facilities:  idList(values["facilities"]),
	}
	if strings.EqualFold(q.City, AnywhereLabel) {
		q.City = ""
	}
	if q.Country == "" {
		q.Country = DefaultCountry
	}
	q.CityLabel = q.City
	if q.CityLabel == "" {
		q.CityLabel = AnywhereLabel
	}
	return q
}

func (q SearchQuery) Filter() repositories.SearchFilter {
	return repositories.SearchFilter{
		City:        q.City,
		Country:     q.Country,
		RoomType:    q.RoomType,
		Price:       q.Price,
		Guests:      q.Guests,
		Beds:        q.Beds,
		Bedrooms:    q.Bedrooms,
		Baths:       q.Baths,
		InstantBook: q.InstantBook,
		Superhost:   q.Superhost,
		Amenities:   q.Amenities,
		Facilities:  q.Facilities,
	}
}

func positiveInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

// idList accepts repeated values and comma-separated lists, dropping
// anything that is not a positive integer and keeping first-seen order.
func idList(raw []string) []uint {
	seen := make(map[uint]struct{})
	ids := []uint{}
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			n := positiveInt(part)
			if n == 0 {
				continue
			}
			id := uint(n)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

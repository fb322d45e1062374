package services

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"airbnb-clone/models"
	"airbnb-clone/pagination"
	"airbnb-clone/repositories"
)

const (
	RoomsPerPage = 10
	RoomsOrphans = 5
)

// ErrPageOutOfRange tells the caller to fall back to the first page.
var ErrPageOutOfRange = errors.New("page out of range")

type RoomService struct {
	rooms      repositories.RoomRepository
	roomTypes  repositories.VocabularyRepository
	amenities  repositories.VocabularyRepository
	facilities repositories.VocabularyRepository
	houseRules repositories.VocabularyRepository
}

func NewRoomService(rooms repositories.RoomRepository, roomTypes, amenities, facilities, houseRules repositories.VocabularyRepository) *RoomService {
	return &RoomService{
		rooms:      rooms,
		roomTypes:  roomTypes,
		amenities:  amenities,
		facilities: facilities,
		houseRules: houseRules,
	}
}

type RoomPage struct {
	Rooms []models.Room   `json:"rooms"`
	Page  pagination.Page `json:"page"`
}

type SearchResult struct {
	Query      SearchQuery     `json:"query"`
	Rooms      []models.Room   `json:"rooms"`
	Page       pagination.Page `json:"page"`
	RoomTypes  []models.Item   `json:"room_types"`
	Amenities  []models.Item   `json:"amenities"`
	Facilities []models.Item   `json:"facilities"`
}

// ListPage returns one page of the home listing. A page value that is not
// an integer or lies outside the listing yields ErrPageOutOfRange.
func (s *RoomService) ListPage(ctx context.Context, rawPage string) (*RoomPage, error) {
	n, err := pagination.ParseNumber(rawPage)
	if err != nil {
		return nil, ErrPageOutOfRange
	}
	count, err := s.rooms.Count(ctx)
	if err != nil {
		return nil, err
	}
	page, err := pagination.New(RoomsPerPage, RoomsOrphans, count).Page(n)
	if err != nil {
		return nil, ErrPageOutOfRange
	}
	rooms, err := s.rooms.List(ctx, page.Offset, page.Limit)
	if err != nil {
		return nil, err
	}
	return &RoomPage{Rooms: rooms, Page: page}, nil
}

func (s *RoomService) Detail(ctx context.Context, id uint) (*models.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

// Search runs q and pages the result. Bad page values are clamped rather
// than rejected.
func (s *RoomService) Search(ctx context.Context, q SearchQuery, rawPage string) (*SearchResult, error) {
	filter := q.Filter()
	count, err := s.rooms.CountSearch(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := pagination.New(RoomsPerPage, RoomsOrphans, count).Clamp(rawPage)
	filter.Offset, filter.Limit = page.Offset, page.Limit

	rooms := []models.Room{}
	if page.Limit > 0 {
		if rooms, err = s.rooms.Search(ctx, filter); err != nil {
			return nil, err
		}
	}

	res := &SearchResult{Query: q, Rooms: rooms, Page: page}
	if res.RoomTypes, err = s.roomTypes.List(ctx); err != nil {
		return nil, err
	}
	if res.Amenities, err = s.amenities.List(ctx); err != nil {
		return nil, err
	}
	if res.Facilities, err = s.facilities.List(ctx); err != nil {
		return nil, err
	}
	return res, nil
}

// RoomInput is the create form. Times are "HH:MM".
type RoomInput struct {
	Name        string `json:"name" form:"name" binding:"required,max=140"`
	Description string `json:"description" form:"description"`
	Country     string `json:"country" form:"country" binding:"required,len=2,alpha"`
	City        string `json:"city" form:"city" binding:"required,max=80"`
	Price       int    `json:"price" form:"price" binding:"gte=0"`
	Address     string `json:"address" form:"address" binding:"max=140"`
	Guests      int    `json:"guests" form:"guests" binding:"gte=0"`
	Beds        int    `json:"beds" form:"beds" binding:"gte=0"`
	Bedrooms    int    `json:"bedrooms" form:"bedrooms" binding:"gte=0"`
	Baths       int    `json:"baths" form:"baths" binding:"gte=0"`
	CheckIn     string `json:"check_in" form:"check_in" binding:"omitempty,datetime=15:04"`
	CheckOut    string `json:"check_out" form:"check_out" binding:"omitempty,datetime=15:04"`
	InstantBook bool   `json:"instant_book" form:"instant_book"`
	RoomType    *uint  `json:"room_type" form:"room_type"`
}

// RoomPatch carries only the fields a host wants to change.
type RoomPatch struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=140"`
	Description *string `json:"description"`
	Country     *string `json:"country" binding:"omitempty,len=2,alpha"`
	City        *string `json:"city" binding:"omitempty,min=1,max=80"`
	Price       *int    `json:"price" binding:"omitempty,gte=0"`
	Address     *string `json:"address" binding:"omitempty,max=140"`
	Guests      *int    `json:"guests" binding:"omitempty,gte=0"`
	Beds        *int    `json:"beds" binding:"omitempty,gte=0"`
	Bedrooms    *int    `json:"bedrooms" binding:"omitempty,gte=0"`
	Baths       *int    `json:"baths" binding:"omitempty,gte=0"`
	CheckIn     *string `json:"check_in" binding:"omitempty,datetime=15:04"`
	CheckOut    *string `json:"check_out" binding:"omitempty,datetime=15:04"`
	InstantBook *bool   `json:"instant_book"`
	// RoomType 0 clears the room type.
	RoomType *uint `json:"room_type"`
}

func (s *RoomService) Create(ctx context.Context, host *models.User, in RoomInput) (*models.Room, error) {
	room := &models.Room{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Country:     strings.ToUpper(in.Country),
		City:        strings.TrimSpace(in.City),
		Price:       in.Price,
		Address:     in.Address,
		Guests:      in.Guests,
		Beds:        in.Beds,
		Bedrooms:    in.Bedrooms,
		Baths:       in.Baths,
		InstantBook: in.InstantBook,
		HostID:      host.ID,
	}

	fe := FormErrors{}
	room.CheckIn = parseClock(in.CheckIn, "check_in", fe)
	room.CheckOut = parseClock(in.CheckOut, "check_out", fe)
	if in.RoomType != nil && *in.RoomType != 0 {
		if err := s.checkRoomType(ctx, *in.RoomType, fe); err != nil {
			return nil, err
		}
		room.RoomTypeID = in.RoomType
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"room": room.ID, "host": host.ID}).Info("room created")
	return s.rooms.GetByID(ctx, room.ID)
}

func (s *RoomService) Update(ctx context.Context, user *models.User, id uint, in RoomPatch) (*models.Room, error) {
	room, err := s.ownedRoom(ctx, user, id)
	if err != nil {
		return nil, err
	}

	fe := FormErrors{}
	if in.Name != nil {
		room.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		room.Description = *in.Description
	}
	if in.Country != nil {
		room.Country = strings.ToUpper(*in.Country)
	}
	if in.City != nil {
		room.City = strings.TrimSpace(*in.City)
	}
	if in.Price != nil {
		room.Price = *in.Price
	}
	if in.Address != nil {
		room.Address = *in.Address
	}
	if in.Guests != nil {
		room.Guests = *in.Guests
	}
	if in.Beds != nil {
		room.Beds = *in.Beds
	}
	if in.Bedrooms != nil {
		room.Bedrooms = *in.Bedrooms
	}
	if in.Baths != nil {
		room.Baths = *in.Baths
	}
	if in.CheckIn != nil {
		room.CheckIn = parseClock(*in.CheckIn, "check_in", fe)
	}
	if in.CheckOut != nil {
		room.CheckOut = parseClock(*in.CheckOut, "check_out", fe)
	}
	if in.InstantBook != nil {
		room.InstantBook = *in.InstantBook
	}
	if in.RoomType != nil {
		if *in.RoomType == 0 {
			room.RoomTypeID = nil
		} else {
			if err := s.checkRoomType(ctx, *in.RoomType, fe); err != nil {
				return nil, err
			}
			id := *in.RoomType
			room.RoomTypeID = &id
		}
		room.RoomType = nil
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, err
	}
	return s.rooms.GetByID(ctx, room.ID)
}

func (s *RoomService) Delete(ctx context.Context, user *models.User, id uint) error {
	if _, err := s.ownedRoom(ctx, user, id); err != nil {
		return err
	}
	if err := s.rooms.Delete(ctx, id); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"room": id, "host": user.ID}).Info("room deleted")
	return nil
}

// Membership kinds accepted by ChangeMembership.
const (
	MemberAmenity   = "amenities"
	MemberFacility  = "facilities"
	MemberHouseRule = "house-rules"
)

// ChangeMembership adds or removes one vocabulary entry on a room owned by
// user. Adding an entry the room already holds is a no-op.
func (s *RoomService) ChangeMembership(ctx context.Context, user *models.User, roomID uint, kind string, itemID uint, add bool) error {
	if _, err := s.ownedRoom(ctx, user, roomID); err != nil {
		return err
	}

	var (
		vocab           repositories.VocabularyRepository
		addFn, removeFn func(context.Context, uint, uint) error
	)
	switch kind {
	case MemberAmenity:
		vocab, addFn, removeFn = s.amenities, s.rooms.AddAmenity, s.rooms.RemoveAmenity
	case MemberFacility:
		vocab, addFn, removeFn = s.facilities, s.rooms.AddFacility, s.rooms.RemoveFacility
	case MemberHouseRule:
		vocab, addFn, removeFn = s.houseRules, s.rooms.AddHouseRule, s.rooms.RemoveHouseRule
	default:
		return errors.Wrapf(repositories.ErrNotFound, "membership kind %q", kind)
	}

	ok, err := vocab.Exists(ctx, itemID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(repositories.ErrNotFound, "%s %d", kind, itemID)
	}
	if add {
		return addFn(ctx, roomID, itemID)
	}
	return removeFn(ctx, roomID, itemID)
}

func (s *RoomService) ownedRoom(ctx context.Context, user *models.User, id uint) (*models.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || room.HostID != user.ID {
		return nil, ErrForbidden
	}
	return room, nil
}

func (s *RoomService) checkRoomType(ctx context.Context, id uint, fe FormErrors) error {
	ok, err := s.roomTypes.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		fe.Add("room_type", "Select a valid choice. That choice is not one of the available choices.")
	}
	return nil
}

func parseClock(raw, field string, fe FormErrors) datatypes.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return datatypes.NewTime(0, 0, 0, 0)
	}
	t, err := time.Parse("15:04", raw)
	if err != nil {
		fe.Add(field, "Enter a valid time.")
		return datatypes.NewTime(0, 0, 0, 0)
	}
	return datatypes.NewTime(t.Hour(), t.Minute(), 0, 0)
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-clone/models"
	"airbnb-clone/repositories"
)

func TestListPage_OrphansMergeIntoLastPage(t *testing.T) {
	db := newTestDB(t)
	host := createUser(t, db, models.User{Username: "host@example.com"})
	seeded := seedRooms(t, db, host, 23, nil)
	svc := newRoomService(db)
	ctx := context.Background()

	first, err := svc.ListPage(ctx, "")
	require.NoError(t, err)
	assert.Len(t, first.Rooms, 10)
	assert.Equal(t, 2, first.Page.NumPages)
	assert.Equal(t, seeded[0].ID, first.Rooms[0].ID)

	second, err := svc.ListPage(ctx, "2")
	require.NoError(t, err)
	assert.Len(t, second.Rooms, 13)
	assert.Equal(t, seeded[22].ID, second.Rooms[12].ID)

	for _, bad := range []string{"3", "0", "abc", "-1"} {
		_, err := svc.ListPage(ctx, bad)
		assert.ErrorIs(t, err, ErrPageOutOfRange, bad)
	}
}

func TestListPage_EmptyListingHasOnePage(t *testing.T) {
	svc := newRoomService(newTestDB(t))
	page, err := svc.ListPage(context.Background(), "1")
	require.NoError(t, err)
	assert.Empty(t, page.Rooms)
	assert.Equal(t, 1, page.Page.NumPages)
}

func TestSearch_ClampsPageAndEchoesForm(t *testing.T) {
	db := newTestDB(t)
	host := createUser(t, db, models.User{Username: "host@example.com"})
	seedRooms(t, db, host, 12, func(i int, r *models.Room) {
		r.Price = 10 * (i + 1)
	})
	_, err := repositories.NewAmenityRepository(db).Create(context.Background(), "Wifi")
	require.NoError(t, err)
	svc := newRoomService(db)

	q := SearchQuery{Country: "KR", CityLabel: AnywhereLabel, Price: 110}
	res, err := svc.Search(context.Background(), q, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page.Number)
	assert.Equal(t, int64(11), res.Page.Count)
	assert.Len(t, res.Rooms, 11, "11 results fit one page with orphans")
	assert.Equal(t, q, res.Query)
	assert.Len(t, res.Amenities, 1)
	assert.Empty(t, res.RoomTypes)

	res, err = svc.Search(context.Background(), q, "99")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page.Number)

	res, err = svc.Search(context.Background(), SearchQuery{Country: "JP"}, "")
	require.NoError(t, err)
	assert.Empty(t, res.Rooms)
	assert.NotNil(t, res.Rooms)
}

func TestRoomMutations_OnlyHost(t *testing.T) {
	db := newTestDB(t)
	host := createUser(t, db, models.User{Username: "host@example.com"})
	other := createUser(t, db, models.User{Username: "other@example.com"})
	svc := newRoomService(db)
	ctx := context.Background()

	room, err := svc.Create(ctx, host, RoomInput{Name: "Loft", Country: "kr", City: "Seoul", Price: 100, CheckIn: "15:00", CheckOut: "11:00"})
	require.NoError(t, err)
	assert.Equal(t, "KR", room.Country)
	assert.Equal(t, host.ID, room.Host.ID)

	name := "Stolen"
	_, err = svc.Update(ctx, other, room.ID, RoomPatch{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, other, room.ID), ErrForbidden)

	amenity, err := repositories.NewAmenityRepository(db).Create(ctx, "Wifi")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.ChangeMembership(ctx, other, room.ID, MemberAmenity, amenity.ID, true), ErrForbidden)
	require.NoError(t, svc.ChangeMembership(ctx, host, room.ID, MemberAmenity, amenity.ID, true))
	assert.ErrorIs(t, svc.ChangeMembership(ctx, host, room.ID, MemberFacility, 999, true), repositories.ErrNotFound)

	name = "Sunny loft"
	updated, err := svc.Update(ctx, host, room.ID, RoomPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Sunny loft", updated.Name)
	assert.Equal(t, "Seoul", updated.City)
	require.Len(t, updated.Amenities, 1)

	require.NoError(t, svc.Delete(ctx, host, room.ID))
	_, err = svc.Detail(ctx, room.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, host, room.ID), repositories.ErrNotFound)
}

func TestRoomCreate_ValidatesRoomTypeAndTimes(t *testing.T) {
	db := newTestDB(t)
	host := createUser(t, db, models.User{Username: "host@example.com"})
	svc := newRoomService(db)

	missing := uint(42)
	_, err := svc.Create(context.Background(), host, RoomInput{Name: "x", Country: "KR", City: "Seoul", CheckIn: "25:99", RoomType: &missing})
	fe, ok := AsFormErrors(err)
	require.True(t, ok, "want form errors, got %v", err)
	assert.Contains(t, fe, "room_type")
	assert.Contains(t, fe, "check_in")
}

func TestRoomUpdate_ClearsRoomType(t *testing.T) {
	db := newTestDB(t)
	host := createUser(t, db, models.User{Username: "host@example.com"})
	rt, err := repositories.NewRoomTypeRepository(db).Create(context.Background(), "Private room")
	require.NoError(t, err)
	svc := newRoomService(db)
	ctx := context.Background()

	room, err := svc.Create(ctx, host, RoomInput{Name: "x", Country: "KR", City: "Seoul", RoomType: &rt.ID})
	require.NoError(t, err)
	require.NotNil(t, room.RoomType)

	zero := uint(0)
	room, err = svc.Update(ctx, host, room.ID, RoomPatch{RoomType: &zero})
	require.NoError(t, err)
	assert.Nil(t, room.RoomTypeID)
}

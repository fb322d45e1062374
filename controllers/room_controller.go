package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"airbnb-clone/auth"
	"airbnb-clone/services"
	"airbnb-clone/utils"
)

type RoomController struct {
	RoomSvc *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{RoomSvc: svc}
}

// ----------------------------------------------------
// Home listing (GET /)
// ----------------------------------------------------

func (rc *RoomController) Home(c *gin.Context) {
	page, err := rc.RoomSvc.ListPage(c.Request.Context(), c.Query("page"))
	if errors.Is(err, services.ErrPageOutOfRange) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ----------------------------------------------------
// Room detail (GET /rooms/:id)
// ----------------------------------------------------

func (rc *RoomController) Detail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	room, err := rc.RoomSvc.Detail(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// ----------------------------------------------------
// Search (GET /rooms/search/)
// ----------------------------------------------------

func (rc *RoomController) Search(c *gin.Context) {
	q := services.ParseSearchQuery(c.Request.URL.Query())
	res, err := rc.RoomSvc.Search(c.Request.Context(), q, c.Query("page"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ----------------------------------------------------
// Host mutations (login required)
// ----------------------------------------------------

func (rc *RoomController) Create(c *gin.Context) {
	var in services.RoomInput
	if !bind(c, &in) {
		return
	}
	room, err := rc.RoomSvc.Create(c.Request.Context(), auth.CurrentUser(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (rc *RoomController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.RoomPatch
	if !bindJSON(c, &in) {
		return
	}
	room, err := rc.RoomSvc.Update(c.Request.Context(), auth.CurrentUser(c), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (rc *RoomController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := rc.RoomSvc.Delete(c.Request.Context(), auth.CurrentUser(c), id); err != nil {
		writeError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Room deleted successfully"})
}

// Membership returns the handler for POST (add=true) or DELETE on
// /rooms/:id/<kind>/:itemId.
func (rc *RoomController) Membership(kind string, add bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, ok := idParam(c, "id")
		if !ok {
			return
		}
		itemID, ok := idParam(c, "itemId")
		if !ok {
			return
		}
		err := rc.RoomSvc.ChangeMembership(c.Request.Context(), auth.CurrentUser(c), roomID, kind, itemID, add)
		if err != nil {
			writeError(c, err)
			return
		}
		room, err := rc.RoomSvc.Detail(c.Request.Context(), roomID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, room)
	}
}

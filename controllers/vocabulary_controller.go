package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"airbnb-clone/repositories"
	"airbnb-clone/utils"
)

// VocabularyController serves one of room types, amenities, facilities or
// house rules under /api/<kind>.
type VocabularyController struct {
	Repo repositories.VocabularyRepository
}

func NewVocabularyController(repo repositories.VocabularyRepository) *VocabularyController {
	return &VocabularyController{Repo: repo}
}

type itemPayload struct {
	Name string `json:"name" form:"name" binding:"required,max=80"`
}

func (vc *VocabularyController) List(c *gin.Context) {
	items, err := vc.Repo.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (vc *VocabularyController) Create(c *gin.Context) {
	var p itemPayload
	if !bind(c, &p) {
		return
	}
	item, err := vc.Repo.Create(c.Request.Context(), strings.TrimSpace(p.Name))
	if err != nil {
		writeError(c, err)
		return
	}
	logrus.WithFields(logrus.Fields{"kind": vc.Repo.Kind(), "id": item.ID}).Info("vocabulary entry created")
	c.JSON(http.StatusCreated, item)
}

func (vc *VocabularyController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := vc.Repo.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "deleted"})
}

package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"airbnb-clone/repositories"
	"airbnb-clone/services"
	"airbnb-clone/utils"
)

func init() {
	// Report fields under their wire names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	}
}

// bind decodes the body (JSON or form, by content type) into obj and writes
// a 400 with field errors when it does not validate.
func bind(c *gin.Context, obj interface{}) bool {
	return handleBindError(c, c.ShouldBind(obj))
}

func bindJSON(c *gin.Context, obj interface{}) bool {
	return handleBindError(c, c.ShouldBindJSON(obj))
}

func handleBindError(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		utils.JSONFormErrors(c, formErrors(verrs))
		return false
	}
	utils.JSONFormErrors(c, services.FormErrors{services.NonFieldErrors: {"Invalid request payload."}})
	return false
}

func formErrors(verrs validator.ValidationErrors) services.FormErrors {
	fe := services.FormErrors{}
	for _, e := range verrs {
		fe.Add(e.Field(), fieldMessage(e))
	}
	return fe
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", e.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", e.Param())
	case "len":
		return fmt.Sprintf("Ensure this value has exactly %s characters.", e.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", e.Param())
	case "alpha":
		return "Enter only letters."
	case "oneof":
		return "Select a valid choice."
	case "datetime":
		return "Enter a valid time."
	default:
		return "Enter a valid value."
	}
}

// writeError maps service errors onto responses.
func writeError(c *gin.Context, err error) {
	if fe, ok := services.AsFormErrors(err); ok {
		utils.JSONFormErrors(c, fe)
		return
	}
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, repositories.ErrDuplicate):
		utils.JSONError(c, http.StatusConflict, "already exists")
	default:
		_ = c.Error(err)
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
	}
}

// idParam reads a positive integer path parameter; anything else is a 404.
func idParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		utils.JSONError(c, http.StatusNotFound, "not found")
		return 0, false
	}
	return uint(n), true
}

// formField describes one input of a form for clients that render it.
type formField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Label    string `json:"label,omitempty"`
}

package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// JSONFormErrors reports field-level validation messages; non-field
// messages live under "__all__".
func JSONFormErrors(c *gin.Context, errs map[string][]string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid form", "errors": errs})
}

// SafeNext accepts only local absolute paths as redirect targets.
func SafeNext(next, fallback string) string {
	if len(next) == 0 || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		return fallback
	}
	return next
}

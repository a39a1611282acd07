package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindJSON decodes and validates the request body. Shape or email-format
// failures short-circuit with 422 and a structured detail; the adapter is
// never called for an invalid body.
func bindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		detail := make([]gin.H, 0, len(verr))
		for _, fe := range verr {
			detail = append(detail, gin.H{
				"field": strings.ToLower(fe.Field()),
				"msg":   validationMsg(fe),
			})
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": detail})
		return false
	}

	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid request body"})
	return false
}

func validationMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	default:
		return "invalid value"
	}
}

package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"grocery-backend/internal/domain"
)

// respondError maps domain errors onto HTTP statuses. Anything unknown is a
// 500 with a generic body so internals never leak.
func respondError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, validationBody(ve))
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func validationBody(ve *domain.ValidationError) gin.H {
	body := gin.H{"error": ve.Error()}
	details := gin.H{}
	if len(ve.Fields) > 0 {
		details["fields"] = ve.Fields
	}
	if len(ve.Items) > 0 {
		items := make(map[string]string, len(ve.Items))
		for id, msg := range ve.Items {
			items[strconv.FormatInt(id, 10)] = msg
		}
		details["cart_items"] = items
	}
	if len(details) > 0 {
		body["details"] = details
	}
	return body
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

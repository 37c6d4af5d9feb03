package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/inventory-portal/internal/service/portal"
	"github.com/mamadbah2/inventory-portal/internal/service/session"
	"github.com/mamadbah2/inventory-portal/internal/validation"
	"github.com/mamadbah2/inventory-portal/pkg/clients/inventory"
)

// writeError maps service errors to status codes and JSON bodies.
func writeError(c *gin.Context, err error) {
	var (
		verr   *validation.ValidationError
		subErr *portal.SubmitError
		apiErr *inventory.APIError
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Fields})
	case errors.Is(err, session.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, portal.ErrUnknownPage),
		errors.Is(err, portal.ErrUnknownForm),
		errors.Is(err, portal.ErrUnknownResource),
		errors.Is(err, inventory.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, portal.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &subErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": subErr.Message})
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": apiErr.Message})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/dfryer1193/markblog/api"
	"github.com/dfryer1193/markblog/blog/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const msgMissingFields = "Missing required fields"

// respondError maps a domain error onto a status code and a JSON error body.
// Unexpected errors are logged and answered with fallback.
func respondError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)

	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Post not found"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: verr.Error()})
	case errors.Is(err, domain.ErrInvalidSlug):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, context.Canceled):
		c.AbortWithStatus(499)
	default:
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg(fallback)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}

// bindingMessage turns a gin binding failure into the message sent back to the client.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}

	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return msgMissingFields
		}
	}
	return "Invalid field: " + verrs[0].Field()
}

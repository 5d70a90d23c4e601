package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/medicore/clinic-api/pkg/apperror"
)

// ErrorResponse is the error envelope returned for every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}

// ErrorHandler maps errors pushed onto the gin context to HTTP responses.
// Internal errors are logged with their cause and returned opaque.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		appErr := apperror.From(err)

		event := log.Warn()
		if appErr.Kind == apperror.KindInternal {
			event = log.Error().Err(err)
		}
		event.
			Str("request_id", c.GetString(ContextRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", appErr.StatusCode()).
			Str("reason", string(appErr.Reason)).
			Msg("request failed")

		message := appErr.Message
		if appErr.Kind == apperror.KindInternal {
			message = "internal server error"
		}
		c.JSON(appErr.StatusCode(), ErrorResponse{Message: message})
	}
}

// Fail records err on the context and aborts; the error handler renders it.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Recovery converts panics into logged 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("panic", r).
					Str("request_id", c.GetString(ContextRequestID)).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Msg("request panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					ErrorResponse{Message: "internal server error"})
			}
		}()
		c.Next()
	}
}

package middleware

import (
	apiError "collaborative-annotation-server/internal/errors"
	"errors"
	"log"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler attached via c.Error as a
// JSON response. Raw errors that were never wrapped become 500s; their
// details are logged but never leak to clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var apiErr *apiError.APIError
		if !errors.As(err, &apiErr) {
			apiErr = apiError.Internal(err)
		}

		if apiErr.Status >= 500 {
			log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, apiErr.Internal)
		} else {
			log.Printf("[INFO] %s %s (%s): %v", c.Request.Method, c.Request.URL.Path, apiErr.Kind, err)
		}

		c.AbortWithStatusJSON(apiErr.Status, apiErr)
	}
}

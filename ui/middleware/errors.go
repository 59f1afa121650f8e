package middleware

import (
	"net/http"

	apperrors "gotitanic/internal/errors"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON body of every failed API request
type ErrorResponse struct {
	Status        string `json:"status"`
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	Message       string `json:"message"`
	Path          string `json:"path"`
}

// ErrorHandler renders the last error attached with c.Error once the
// handler chain returns. The status follows the error code.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := apperrors.HTTPStatus(err)
		c.JSON(status, ErrorResponse{
			Status:        "error",
			StatusCode:    status,
			StatusMessage: http.StatusText(status),
			Message:       err.Error(),
			Path:          c.Request.URL.Path,
		})
	}
}

package middleware

import (
	"fmt"
	"sort"
	"strings"

	apperrors "gotitanic/internal/errors"

	"github.com/gin-gonic/gin"
)

// AuthorizeQueryParams rejects requests carrying query parameters outside
// the allowed set, listing every offending name
func AuthorizeQueryParams(allowed ...string) gin.HandlerFunc {
	set := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		set[name] = true
	}

	return func(c *gin.Context) {
		var unknown []string
		for key := range c.Request.URL.Query() {
			if !set[key] {
				unknown = append(unknown, key)
			}
		}
		if len(unknown) == 0 {
			c.Next()
			return
		}

		sort.Strings(unknown)
		messages := make([]string, len(unknown))
		for i, key := range unknown {
			messages[i] = fmt.Sprintf("%s is not a valid parameter, please check api documentation", key)
		}
		_ = c.Error(apperrors.InvalidInput(strings.Join(messages, ", ")))
		c.Abort()
	}
}

package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// GetPaginationParams reads page/per_page query params, falling back to the
// defaults on anything non-numeric and clamping per_page to maxPageSize.
func GetPaginationParams(c *gin.Context) (page, pageSize int) {
	if page, _ = strconv.Atoi(c.Query("page")); page < 1 {
		page = defaultPage
	}
	pageSize, _ = strconv.Atoi(c.Query("per_page"))
	switch {
	case pageSize < 1:
		pageSize = defaultPageSize
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	}
	return page, pageSize
}

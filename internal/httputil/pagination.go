package httputil

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/capitaldesk/desk/internal/errors"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// ParsePagination reads the list window from the query string. Clients either send
// offset and limit, or page (1-based) and limit; page wins when both are present.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	limit, err = queryInt(c, "limit", DefaultPageSize)
	if err != nil || limit < 1 || limit > MaxPageSize {
		return 0, 0, apperrors.Wrapf(apperrors.ErrInvalidInput,
			"limit: must be between 1 and %d", MaxPageSize)
	}

	if _, ok := c.GetQuery("page"); ok {
		page, err := queryInt(c, "page", 1)
		if err != nil || page < 1 {
			return 0, 0, apperrors.Wrap(apperrors.ErrInvalidInput, "page: must be a positive integer")
		}
		if page-1 > math.MaxInt/limit {
			return 0, 0, apperrors.Wrap(apperrors.ErrInvalidInput, "page: out of range")
		}
		return (page - 1) * limit, limit, nil
	}

	offset, err = queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		return 0, 0, apperrors.Wrap(apperrors.ErrInvalidInput, "offset: must be a non-negative integer")
	}
	return offset, limit, nil
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

package httputil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/capitaldesk/desk/internal/errors"
	"github.com/capitaldesk/desk/internal/httputil"
)

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		expectedOffset int
		expectedLimit  int
		expectError    bool
	}{
		{name: "defaults", url: "/", expectedOffset: 0, expectedLimit: httputil.DefaultPageSize},
		{name: "offset and limit", url: "/?offset=10&limit=20", expectedOffset: 10, expectedLimit: 20},
		{name: "max limit", url: "/?limit=100", expectedLimit: 100},
		{name: "empty values use defaults", url: "/?offset=&limit=", expectedLimit: httputil.DefaultPageSize},
		{name: "first page", url: "/?page=1&limit=25", expectedOffset: 0, expectedLimit: 25},
		{name: "third page", url: "/?page=3&limit=25", expectedOffset: 50, expectedLimit: 25},
		{name: "page wins over offset", url: "/?page=2&offset=7&limit=10", expectedOffset: 10, expectedLimit: 10},
		{name: "negative offset", url: "/?offset=-1", expectError: true},
		{name: "non numeric offset", url: "/?offset=abc", expectError: true},
		{name: "zero limit", url: "/?limit=0", expectError: true},
		{name: "limit over max", url: "/?limit=101", expectError: true},
		{name: "zero page", url: "/?page=0", expectError: true},
		{name: "non numeric page", url: "/?page=two", expectError: true},
		{name: "page offset overflows", url: "/?page=9223372036854775807&limit=100", expectError: true},
		{name: "largest page without overflow", url: "/?page=2&limit=100", expectedOffset: 100, expectedLimit: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, tt.url, nil)

			offset, limit, err := httputil.ParsePagination(c)
			if tt.expectError {
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				assert.Zero(t, offset)
				assert.Zero(t, limit)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedOffset, offset)
			assert.Equal(t, tt.expectedLimit, limit)
		})
	}
}

package pagination

import (
	"strconv"

	"github.com/chalkroute/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100
)

// Query holds parsed pagination parameters.
type Query struct {
	Page int
	Size int
}

// Offset is the row offset for the current page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.Size
}

// FromContext extracts pagination params from the request. Values that are
// absent, unparseable or out of range fall back to sane defaults rather than
// failing the listing.
func FromContext(c *gin.Context) Query {
	return Query{
		Page: clamped(c.Query("page"), DefaultPage, 1<<31-1),
		Size: clamped(c.Query("size"), DefaultSize, MaxSize),
	}
}

func clamped(s string, def, max int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	if v > max {
		return max
	}
	return v
}

// Paginate applies limit/offset to a GORM query and returns the pagination metadata.
func Paginate[T any](db *gorm.DB, q Query, dest *[]T) (response.Pagination, error) {
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}

	if err := db.Offset(q.Offset()).Limit(q.Size).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}

	totalPage := int((total + int64(q.Size) - 1) / int64(q.Size))

	return response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Size:        q.Size,
		HasNextPage: q.Page < totalPage,
	}, nil
}

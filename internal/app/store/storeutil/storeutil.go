// internal/app/store/storeutil/storeutil.go
package storeutil

import (
	"math"

	"go.mongodb.org/mongo-driver/mongo/options"
)

// Page size bounds for listings.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Normalize clamps a 1-based page and a page size into range. The page is
// capped so that (page-1)*limit fits in an int64.
func Normalize(page, limit int64) (int64, int64) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt64 / limit; page > maxPage {
		page = maxPage
	}
	return page, limit
}

// Skip returns the number of documents before page.
func Skip(page, limit int64) int64 {
	page, limit = Normalize(page, limit)
	return (page - 1) * limit
}

// TotalPages is ceil(total/limit); zero documents means zero pages.
func TotalPages(total, limit int64) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Paginate returns *options.FindOptions with skip/limit given a 1-based page.
func Paginate(limit, page int64) *options.FindOptions {
	page, limit = Normalize(page, limit)
	return options.Find().SetLimit(limit).SetSkip((page - 1) * limit)
}

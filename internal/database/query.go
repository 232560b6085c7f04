package database

import "gorm.io/gorm"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page selects a window of a list result.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps the page to the accepted bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Paginate applies the page as a gorm scope.
func Paginate(p Page) func(*gorm.DB) *gorm.DB {
	p = p.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(p.Limit).Offset(p.Offset)
	}
}

type SortField string

const (
	SortNone        SortField = ""
	SortTitle       SortField = "title"
	SortPublishDate SortField = "publish_date"
	SortAuthor      SortField = "author"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// BookListOptions controls the book list query.
type BookListOptions struct {
	Page
	SortBy SortField
	Order  SortOrder
}

package orm

import (
	"time"

	"github.com/andreimonforte/malocozz/pkg/cache"
	"github.com/andreimonforte/malocozz/pkg/database"
	"gorm.io/gorm"
)

type Query struct {
	db *gorm.DB
}

func DB() *Query {
	return &Query{db: database.DB}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Preload(column string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(column, args...)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Count(count *int64) error {
	return q.db.Count(count).Error
}

func (q *Query) Create(value interface{}) error {
	return q.db.Create(value).Error
}

func (q *Query) Save(value interface{}) error {
	return q.db.Save(value).Error
}

func (q *Query) Delete(value interface{}) error {
	return q.db.Delete(value).Error
}

func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		return nil
	}

	err := q.db.Find(dest).Error
	if err != nil {
		return err
	}

	cache.Set(key, dest, ttl)
	return nil
}

// Pagination describes one page of a larger result set.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Paginate counts the full result set, then loads one page into dest.
// Page numbers start at 1; perPage is clamped to [1, 100].
func (q *Query) Paginate(page, perPage int, dest interface{}) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	var total int64
	if err := q.db.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	offset := (page - 1) * perPage
	if err := q.db.Offset(offset).Limit(perPage).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}, nil
}

// Transaction runs fn inside a database transaction. A non-nil error from fn
// rolls everything back.
func Transaction(fn func(tx *gorm.DB) error) error {
	return database.DB.Transaction(fn)
}

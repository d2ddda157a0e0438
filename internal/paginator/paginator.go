// Package paginator slices ordered results into numbered pages. Page numbers
// outside the valid range are clamped instead of rejected.
package paginator

import (
	"context"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Page is one slice of an ordered result set
type Page[T any] struct {
	Items       []T   `json:"items"`
	Number      int   `json:"number"`
	PageSize    int   `json:"page_size"`
	NumPages    int   `json:"num_pages"`
	Total       int64 `json:"total"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
}

// ParseNumber parses a page number from a query value. Anything that is not
// a positive integer is page 1.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// bounds computes the clamped page number and the total page count.
// An empty result set still has one (empty) page.
func bounds(total int64, pageSize, number int) (int, int) {
	if pageSize < 1 {
		pageSize = 1
	}
	numPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if numPages < 1 {
		numPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}
	return number, numPages
}

func newPage[T any](items []T, total int64, pageSize, number, numPages int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		Number:      number,
		PageSize:    pageSize,
		NumPages:    numPages,
		Total:       total,
		HasPrevious: number > 1,
		HasNext:     number < numPages,
	}
}

// Paginate returns page number of items
func Paginate[T any](items []T, pageSize, number int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	total := int64(len(items))
	number, numPages := bounds(total, pageSize, number)

	start := (number - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	if start > end {
		start = end
	}
	return newPage(items[start:end:end], total, pageSize, number, numPages)
}

// Query counts base and loads page number of it. base carries the model and
// filters only; ordering and preloads go in scopes so the count query stays
// plain.
func Query[T any](ctx context.Context, base *gorm.DB, pageSize, number int, scopes ...func(*gorm.DB) *gorm.DB) (Page[T], error) {
	if pageSize < 1 {
		pageSize = 1
	}
	q := base.WithContext(ctx).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Page[T]{}, err
	}
	number, numPages := bounds(total, pageSize, number)

	var items []T
	if total > 0 {
		if err := q.Scopes(scopes...).
			Offset((number - 1) * pageSize).
			Limit(pageSize).
			Find(&items).Error; err != nil {
			return Page[T]{}, err
		}
	}
	return newPage(items, total, pageSize, number, numPages), nil
}

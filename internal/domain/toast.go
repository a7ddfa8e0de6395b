package domain

import (
	"fmt"
	"time"
)

// Category is the severity of a toast notification
type Category string

const (
	CategorySuccess Category = "success"
	CategoryError   Category = "error"
	CategoryInfo    Category = "info"
	CategoryWarning Category = "warning"
)

func (c Category) Valid() bool {
	switch c {
	case CategorySuccess, CategoryError, CategoryInfo, CategoryWarning:
		return true
	}
	return false
}

// ParseCategory maps a wire value onto a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown toast category %q", s)
	}
	return c, nil
}

// Toast is a short-lived user-visible status message
type Toast struct {
	ID        int64
	Message   string
	Category  Category
	Duration  time.Duration // <= 0 never expires
	CreatedAt time.Time
}

// Expires reports whether the toast is scheduled for automatic removal.
func (t Toast) Expires() bool {
	return t.Duration > 0
}

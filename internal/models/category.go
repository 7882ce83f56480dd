package models

import (
	"time"

	"github.com/google/uuid"
)

// Category представляет категорию услуг. Может быть вложена в родительскую категорию.
type Category struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description,omitempty"`
	Icon        *string    `db:"icon" json:"icon,omitempty"`
	IsActive    bool       `db:"is_active" json:"isActive"`
	ParentID    *uuid.UUID `db:"parent_id" json:"parentCategory"`
	SortOrder   int        `db:"sort_order" json:"sortOrder"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
	ParentName  *string    `db:"parent_name" json:"parentCategoryName,omitempty"`
}

// Summary возвращает краткое представление категории.
func (c *Category) Summary() *CategorySummary {
	return &CategorySummary{ID: c.ID, Name: c.Name, Description: c.Description}
}

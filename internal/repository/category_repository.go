package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/communityservice/platform-backend/internal/models"
	"github.com/communityservice/platform-backend/internal/repository/common"
)

var ErrCategoryNotFound = fmt.Errorf("category: %w", common.ErrNotFound)

// ConstraintCategoryName: ограничение уникальности имени категории.
const ConstraintCategoryName = "categories_name_key"

const categorySelect = `
	SELECT c.id, c.name, c.description, c.icon, c.is_active, c.parent_id,
	       c.sort_order, c.created_at, c.updated_at, p.name AS parent_name
	FROM categories c
	LEFT JOIN categories p ON p.id = c.parent_id`

// CategoryListFilter ограничивает выборку категорий.
// ParentID == nil выбирает только категории верхнего уровня.
type CategoryListFilter struct {
	IsActive *bool
	ParentID *uuid.UUID
}

type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create сохраняет категорию.
func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	query := `
		INSERT INTO categories (name, description, icon, is_active, parent_id, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		c.Name, c.Description, c.Icon, c.IsActive, c.ParentID, c.SortOrder,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("category repository: create: %w", common.TranslatePQ(err))
	}
	return nil
}

// GetByID возвращает категорию вместе с именем родителя.
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return common.GetByID[models.Category](ctx, r.db, categorySelect+` WHERE c.id = $1`, id, ErrCategoryNotFound)
}

// GetByName ищет категорию по точному имени. Возвращает nil, если не найдена.
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	err := r.db.GetContext(ctx, &c, categorySelect+` WHERE c.name = $1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("category repository: get by name: %w", err)
	}
	return &c, nil
}

// List возвращает категории, отсортированные по sort_order и имени.
func (r *CategoryRepository) List(ctx context.Context, f CategoryListFilter) ([]models.Category, error) {
	where, args := categoryWhere(f)
	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, categorySelect+where+` ORDER BY c.sort_order ASC, c.name ASC`, args...); err != nil {
		return nil, fmt.Errorf("category repository: list: %w", err)
	}
	return categories, nil
}

func categoryWhere(f CategoryListFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		conds = append(conds, fmt.Sprintf("c.is_active = $%d", len(args)))
	}
	if f.ParentID != nil {
		args = append(args, *f.ParentID)
		conds = append(conds, fmt.Sprintf("c.parent_id = $%d", len(args)))
	} else {
		conds = append(conds, "c.parent_id IS NULL")
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

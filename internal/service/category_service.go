package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/communityservice/platform-backend/internal/models"
	"github.com/communityservice/platform-backend/internal/pkg/apperror"
	"github.com/communityservice/platform-backend/internal/repository"
	"github.com/communityservice/platform-backend/internal/repository/common"
)

const (
	MsgCategoryNameRequired = "Category name is required"
	MsgCategoryNameTaken    = "Category with this name already exists"
	MsgInvalidParentID      = "Invalid parent category ID format"
	MsgParentNotFound       = "Parent category does not exist"
	MsgInvalidCategoryIDFmt = "Invalid category ID format"
)

type CategoryRepository interface {
	CategoryLookup
	GetByName(ctx context.Context, name string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	List(ctx context.Context, f repository.CategoryListFilter) ([]models.Category, error)
}

type CreateCategoryInput struct {
	Name           *string
	Description    *string
	Icon           *string
	ParentCategory *string
	SortOrder      *int
}

// CategoryFilter: необязательные параметры выборки категорий в сыром виде.
type CategoryFilter struct {
	IsActive       *string
	ParentCategory *string
}

type CategoryService struct {
	repo CategoryRepository
	log  *logrus.Entry
}

func NewCategoryService(repo CategoryRepository, log *logrus.Entry) *CategoryService {
	return &CategoryService{repo: repo, log: log}
}

// Create создаёт категорию. Родительская категория должна существовать.
func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	name := blankToEmpty(in.Name)
	if name == "" {
		return nil, apperror.Validation(MsgCategoryNameRequired)
	}

	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.Conflict(MsgCategoryNameTaken)
	}

	category := &models.Category{
		Name:        name,
		Description: nonBlank(in.Description),
		Icon:        nonBlank(in.Icon),
		IsActive:    true,
	}
	if in.SortOrder != nil {
		category.SortOrder = *in.SortOrder
	}

	if raw := blankToEmpty(in.ParentCategory); raw != "" {
		parentID, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperror.Validation(MsgInvalidParentID)
		}
		parent, err := s.repo.GetByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, apperror.NotFound(MsgParentNotFound)
			}
			return nil, apperror.Internal(err)
		}
		category.ParentID = &parent.ID
		category.ParentName = &parent.Name
	}

	if err := s.repo.Create(ctx, category); err != nil {
		var dup *common.DuplicateError
		if errors.As(err, &dup) {
			if dup.Constraint == repository.ConstraintCategoryName {
				return nil, apperror.Conflict(MsgCategoryNameTaken)
			}
			return nil, apperror.Conflict("Category already exists")
		}
		if errors.Is(err, common.ErrInvalidInput) {
			return nil, apperror.Validation("Invalid category data")
		}
		return nil, apperror.Internal(err)
	}

	s.log.WithFields(logrus.Fields{"category_id": category.ID, "name": category.Name}).Info("category created")
	return category, nil
}

// List возвращает категории. Без parentCategory выбираются только категории верхнего уровня.
func (s *CategoryService) List(ctx context.Context, f CategoryFilter) ([]models.Category, error) {
	var filter repository.CategoryListFilter

	if f.IsActive != nil {
		active := *f.IsActive == "true"
		filter.IsActive = &active
	}
	if raw := blankToEmpty(f.ParentCategory); raw != "" {
		parentID, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperror.Format(MsgInvalidParentID)
		}
		filter.ParentID = &parentID
	}

	categories, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return categories, nil
}

// Get возвращает категорию по строковому ID.
func (s *CategoryService) Get(ctx context.Context, rawID string) (*models.Category, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, apperror.Validation(MsgInvalidCategoryIDFmt)
	}

	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, apperror.ErrCategoryNotFound
		}
		return nil, apperror.Internal(err)
	}
	return category, nil
}

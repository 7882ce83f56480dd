package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/communityservice/platform-backend/internal/dto"
	"github.com/communityservice/platform-backend/internal/http/handlers/common"
	"github.com/communityservice/platform-backend/internal/models"
	"github.com/communityservice/platform-backend/internal/service"
)

type CategoryService interface {
	Create(ctx context.Context, in service.CreateCategoryInput) (*models.Category, error)
	List(ctx context.Context, f service.CategoryFilter) ([]models.Category, error)
	Get(ctx context.Context, id string) (*models.Category, error)
}

type CategoryHandler struct {
	categories CategoryService
}

func NewCategoryHandler(categories CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// Create POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	category, err := h.categories.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusCreated, "Category created successfully", dto.CategoryData{Category: category})
}

// List GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	var filter service.CategoryFilter
	if v, ok := c.GetQuery("isActive"); ok {
		filter.IsActive = &v
	}
	if v, ok := c.GetQuery("parentCategory"); ok {
		filter.ParentCategory = &v
	}

	categories, err := h.categories.List(c.Request.Context(), filter)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "Categories retrieved successfully", dto.CategoryListData{
		Categories: categories,
		Count:      len(categories),
	})
}

// Get GET /api/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.categories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "Category retrieved successfully", dto.CategoryData{Category: category})
}

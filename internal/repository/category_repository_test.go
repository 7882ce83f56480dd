package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/communityservice/platform-backend/internal/repository/common"
)

func TestCategoryWhere_TopLevelByDefault(t *testing.T) {
	where, args := categoryWhere(CategoryListFilter{})
	assert.Equal(t, " WHERE c.parent_id IS NULL", where)
	assert.Empty(t, args)
}

func TestCategoryWhere_ActiveChildren(t *testing.T) {
	parent := uuid.New()
	active := true

	where, args := categoryWhere(CategoryListFilter{IsActive: &active, ParentID: &parent})
	assert.Equal(t, " WHERE c.is_active = $1 AND c.parent_id = $2", where)
	assert.Equal(t, []interface{}{true, parent}, args)
}

func TestNotFoundSentinels(t *testing.T) {
	assert.ErrorIs(t, ErrCategoryNotFound, common.ErrNotFound)
	assert.ErrorIs(t, ErrWorkerNotFound, common.ErrNotFound)
	assert.NotErrorIs(t, ErrWorkerNotFound, ErrCategoryNotFound)
}

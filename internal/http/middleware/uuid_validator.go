package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/communityservice/platform-backend/internal/pkg/apperror"
)

// UUIDValidator проверяет, что параметр пути является валидным UUID.
// Использование: router.GET("/workers/:id", UUIDValidator("id", "Invalid worker ID format"), handler.Get)
func UUIDValidator(paramName, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := uuid.Parse(c.Param(paramName)); err != nil {
			abortWithError(c, apperror.Validation(message))
			return
		}
		c.Next()
	}
}

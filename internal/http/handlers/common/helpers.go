package common

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/communityservice/platform-backend/internal/dto"
	"github.com/communityservice/platform-backend/internal/http/middleware"
	"github.com/communityservice/platform-backend/internal/pkg/apperror"
	"github.com/communityservice/platform-backend/internal/service"
)

// MsgInvalidJSON возвращается при синтаксической ошибке в теле запроса.
const MsgInvalidJSON = "Invalid JSON format in request body."

// Requester собирает автора запроса из контекста после AuthMiddleware.
func Requester(c *gin.Context) (service.Requester, error) {
	userID, ok := c.Get(middleware.ContextUserIDKey)
	if !ok {
		return service.Requester{}, apperror.ErrUnauthorized
	}
	id, ok := userID.(uuid.UUID)
	if !ok {
		return service.Requester{}, apperror.ErrUnauthorized
	}
	return service.Requester{UserID: id, Role: c.GetString(middleware.ContextRoleKey)}, nil
}

// ParseUUIDParam разбирает UUID из параметра пути.
func ParseUUIDParam(c *gin.Context, paramName, message string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(c.Param(paramName))
	if err != nil {
		return uuid.Nil, apperror.Validation(message)
	}
	return parsed, nil
}

// BindJSON читает тело запроса. Пустое тело не считается ошибкой:
// отсутствие полей проверяет сервис.
func BindJSON(c *gin.Context, req interface{}) error {
	err := json.NewDecoder(c.Request.Body).Decode(req)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperror.New(apperror.ErrCodeBadRequest, MsgInvalidJSON)
	case errors.As(err, &typeErr):
		return apperror.Validation("Invalid input data. " + typeErr.Field + " has an invalid type")
	default:
		return apperror.New(apperror.ErrCodeBadRequest, MsgInvalidJSON)
	}
}

// Fail передаёт ошибку в ErrorHandler.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// RespondSuccess отправляет ответ в общем конверте.
func RespondSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, dto.SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

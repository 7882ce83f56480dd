package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/communityservice/platform-backend/internal/dto"
	"github.com/communityservice/platform-backend/internal/pkg/apperror"
)

const msgInternal = "Something went wrong!"

// ErrorHandler превращает последнюю ошибку запроса в ответ с общим конвертом.
// Ошибки без AppError считаются внутренними: они логируются, а клиент получает общий текст.
func ErrorHandler(log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := errorResponse(err)

		if status >= http.StatusInternalServerError {
			log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("request failed")
		}

		c.JSON(status, body)
	}
}

// NotFoundHandler отвечает на запросы к неизвестным маршрутам.
func NotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.ErrorResponse{
		Success: false,
		Status:  "fail",
		Message: "Route " + c.Request.URL.Path + " not found",
	})
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code == apperror.ErrCodeInternal {
		return http.StatusInternalServerError, dto.ErrorResponse{Status: "error", Message: msgInternal}
	}
	return appErr.HTTPStatus, dto.ErrorResponse{Status: appErr.Status(), Message: appErr.Message}
}

func abortWithError(c *gin.Context, err *apperror.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, dto.ErrorResponse{Status: err.Status(), Message: err.Message})
}

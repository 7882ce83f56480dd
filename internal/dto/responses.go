package dto

import (
	"github.com/communityservice/platform-backend/internal/models"
	"github.com/communityservice/platform-backend/internal/query"
)

// SuccessResponse: общий конверт успешного ответа.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorResponse: общий конверт ошибки. Status равен "fail" для ошибок клиента.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type WorkerData struct {
	Worker *models.Worker `json:"worker"`
}

type WorkerListData struct {
	Workers    []models.Worker  `json:"workers"`
	Pagination query.Pagination `json:"pagination"`
}

type CategoryData struct {
	Category *models.Category `json:"category"`
}

type CategoryListData struct {
	Categories []models.Category `json:"categories"`
	Count      int               `json:"count"`
}

// Empty сериализуется в {}.
type Empty struct{}

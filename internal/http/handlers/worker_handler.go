package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/communityservice/platform-backend/internal/dto"
	"github.com/communityservice/platform-backend/internal/http/handlers/common"
	"github.com/communityservice/platform-backend/internal/models"
	"github.com/communityservice/platform-backend/internal/query"
	"github.com/communityservice/platform-backend/internal/service"
)

const msgInvalidWorkerID = "Invalid worker ID format"

type WorkerService interface {
	Register(ctx context.Context, in service.RegisterWorkerInput) (*models.Worker, error)
	List(ctx context.Context, f query.WorkerFilter) (*service.WorkerPage, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Worker, error)
	Update(ctx context.Context, id uuid.UUID, in service.UpdateWorkerInput) (*models.Worker, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) (*models.Worker, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type WorkerHandler struct {
	workers WorkerService
}

func NewWorkerHandler(workers WorkerService) *WorkerHandler {
	return &WorkerHandler{workers: workers}
}

// Register POST /api/workers
func (h *WorkerHandler) Register(c *gin.Context) {
	var req dto.RegisterWorkerRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	var userID *uuid.UUID
	if requester, err := common.Requester(c); err == nil {
		userID = &requester.UserID
	}

	worker, err := h.workers.Register(c.Request.Context(), req.ToInput(userID))
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusCreated, "Worker registered successfully", dto.WorkerData{Worker: worker})
}

// List GET /api/workers
func (h *WorkerHandler) List(c *gin.Context) {
	page, err := h.workers.List(c.Request.Context(), query.FilterFromValues(c.Request.URL.Query()))
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "Workers retrieved successfully", dto.WorkerListData{
		Workers:    page.Workers,
		Pagination: page.Pagination,
	})
}

// Get GET /api/workers/:id
func (h *WorkerHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id", msgInvalidWorkerID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	worker, err := h.workers.Get(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "Worker retrieved successfully", dto.WorkerData{Worker: worker})
}

// Update PUT /api/workers/:id
func (h *WorkerHandler) Update(c *gin.Context) {
	requester, err := common.Requester(c)
	if err != nil {
		common.Fail(c, err)
		return
	}

	id, err := common.ParseUUIDParam(c, "id", msgInvalidWorkerID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	var req dto.UpdateWorkerRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	worker, err := h.workers.Update(c.Request.Context(), id, req.ToInput(requester))
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "Worker updated successfully", dto.WorkerData{Worker: worker})
}

// UpdateStatus PATCH /api/workers/:id/status
func (h *WorkerHandler) UpdateStatus(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id", msgInvalidWorkerID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	var req dto.UpdateStatusRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	worker, err := h.workers.UpdateStatus(c.Request.Context(), id, req.Status, req.VerificationNotes)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "Worker status updated successfully", dto.WorkerData{Worker: worker})
}

// Delete DELETE /api/workers/:id
func (h *WorkerHandler) Delete(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id", msgInvalidWorkerID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	if err := h.workers.Delete(c.Request.Context(), id); err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "Worker deleted successfully", dto.Empty{})
}

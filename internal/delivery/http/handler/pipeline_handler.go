package handler

import (
	"time"

	"github.com/docking-planner/internal/domain"
	apperrors "github.com/docking-planner/internal/pkg/errors"
	"github.com/docking-planner/internal/pkg/utils"
	"github.com/docking-planner/internal/pkg/validator"
	"github.com/docking-planner/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunRequest - запрос на запуск пайплайна
type RunRequest struct {
	Stage string `json:"stage" validate:"omitempty,oneof=edges nodes all hexgrid"`
}

// RunResponse - принятый запуск
type RunResponse struct {
	RunID       uuid.UUID    `json:"run_id"`
	Stage       domain.Stage `json:"stage"`
	RequestedAt time.Time    `json:"requested_at"`
}

// PipelineHandler ставит запуски пайплайна в очередь
type PipelineHandler struct {
	triggerUC *usecase.TriggerUseCase
	logger    *zap.Logger
}

// NewPipelineHandler создает новый экземпляр PipelineHandler
func NewPipelineHandler(triggerUC *usecase.TriggerUseCase, logger *zap.Logger) *PipelineHandler {
	return &PipelineHandler{
		triggerUC: triggerUC,
		logger:    logger,
	}
}

// RequestRun godoc
// @Summary Request a pipeline run
// @Description Публикует событие запуска в stream:pipeline:run; выполняет его воркер
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param request body RunRequest false "Stage (edges, nodes, all, hexgrid); default all"
// @Success 202 {object} utils.SuccessResponse{data=RunResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/pipeline/runs [post]
func (h *PipelineHandler) RequestRun(c *fiber.Ctx) error {
	var req RunRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, apperrors.ErrInvalidRequest.Wrap(err))
		}
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.
			WithDetails(map[string]interface{}{"validation": err.Error()}))
	}

	stage, err := domain.ParseStage(req.Stage)
	if err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest.Wrap(err))
	}

	event, err := h.triggerUC.RequestRun(c.Context(), stage)
	if err != nil {
		h.logger.Error("Failed to request pipeline run", zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendAccepted(c, RunResponse{
		RunID:       event.RunID,
		Stage:       event.Stage,
		RequestedAt: event.RequestedAt,
	})
}

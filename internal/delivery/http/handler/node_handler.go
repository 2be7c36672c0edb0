package handler

import (
	"github.com/docking-planner/internal/pkg/utils"
	"github.com/docking-planner/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// NodeHandler отдаёт последний датасет кандидатов
type NodeHandler struct {
	nodeUC *usecase.NodeUseCase
	logger *zap.Logger
}

// NewNodeHandler создает новый экземпляр NodeHandler
func NewNodeHandler(nodeUC *usecase.NodeUseCase, logger *zap.Logger) *NodeHandler {
	return &NodeHandler{
		nodeUC: nodeUC,
		logger: logger,
	}
}

// GetNodes godoc
// @Summary Get candidate nodes
// @Description Последний сохранённый датасет (потенциальные узлы и станции) как GeoJSON FeatureCollection
// @Tags Nodes
// @Produce json
// @Success 200 {object} map[string]interface{} "GeoJSON FeatureCollection"
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/nodes [get]
func (h *NodeHandler) GetNodes(c *fiber.Ctx) error {
	data, err := h.nodeUC.GetLatestGeoJSON(c.Context())
	if err != nil {
		h.logger.Error("Failed to get nodes", zap.Error(err))
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/geo+json")
	return c.Send(data)
}

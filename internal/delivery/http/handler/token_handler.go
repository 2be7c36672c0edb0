package handler

import (
	"github.com/docking-planner/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TokenResponse - ответ с публичным токеном Mapbox
type TokenResponse struct {
	MapboxAccessToken string `json:"mapbox_access_token"`
}

// TokenErrorResponse - ответ при недоступном хранилище секретов
type TokenErrorResponse struct {
	Error string `json:"error"`
}

// TokenHandler отдаёт токен Mapbox фронтенду карты
type TokenHandler struct {
	tokenUC *usecase.TokenUseCase
	logger  *zap.Logger
}

// NewTokenHandler создает новый экземпляр TokenHandler
func NewTokenHandler(tokenUC *usecase.TokenUseCase, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{
		tokenUC: tokenUC,
		logger:  logger,
	}
}

// GetMapboxToken godoc
// @Summary Get Mapbox access token
// @Description Читает публичный токен Mapbox из хранилища секретов при каждом запросе
// @Tags Token
// @Produce json
// @Success 200 {object} TokenResponse
// @Failure 500 {object} TokenErrorResponse
// @Router /get-mapbox-token [get]
// @Router /api/v1/mapbox-token [get]
func (h *TokenHandler) GetMapboxToken(c *fiber.Ctx) error {
	token, err := h.tokenUC.GetMapboxToken(c.Context())
	if err != nil {
		h.logger.Error("Failed to get mapbox token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(TokenErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(TokenResponse{MapboxAccessToken: token})
}

package tfl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/docking-planner/internal/config"
	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/domain/repository"
	apperrors "github.com/docking-planner/internal/pkg/errors"
	"github.com/docking-planner/internal/pkg/validator"
	"go.uber.org/zap"
)

// bikePoint - элемент ответа BikePoint. Координаты указателями: отсутствующее
// поле должно отличаться от 0.
type bikePoint struct {
	ID         string   `json:"id" validate:"required"`
	CommonName string   `json:"commonName"`
	Lat        *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon        *float64 `json:"lon" validate:"required,min=-180,max=180"`
}

type client struct {
	httpClient  *http.Client
	stationsURL string
	logger      *zap.Logger
}

// NewStationClient создает клиент TfL BikePoint API
func NewStationClient(cfg *config.TfLConfig, logger *zap.Logger) repository.StationRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		stationsURL: cfg.StationsURL,
		logger:      logger,
	}
}

// FetchStations загружает список док-станций. Любая ошибка транспорта или
// формата фатальна для запуска и оборачивает ErrStationSource.
func (c *client) FetchStations(ctx context.Context) ([]domain.Station, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.stationsURL, nil)
	if err != nil {
		return nil, apperrors.ErrStationSource.Wrap(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.String("url", c.stationsURL), zap.Error(err))
		return nil, apperrors.ErrStationSource.Wrap(fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("Station source returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, apperrors.ErrStationSource.Wrap(fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body)))
	}

	var points []bikePoint
	if err := json.NewDecoder(resp.Body).Decode(&points); err != nil {
		return nil, apperrors.ErrStationSource.Wrap(fmt.Errorf("failed to decode response: %w", err))
	}

	stations := make([]domain.Station, 0, len(points))
	for i := range points {
		p := &points[i]
		if err := validator.Validate(p); err != nil {
			return nil, apperrors.ErrStationSource.Wrap(fmt.Errorf("invalid station at index %d (id=%q): %w", i, p.ID, err))
		}
		stations = append(stations, domain.Station{
			ID:   p.ID,
			Name: p.CommonName,
			Lat:  *p.Lat,
			Lon:  *p.Lon,
		})
	}

	c.logger.Info("Docking stations fetched", zap.Int("count", len(stations)))

	return stations, nil
}

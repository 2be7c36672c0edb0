package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/docking-planner/internal/config"
	"github.com/docking-planner/internal/domain"
	"github.com/docking-planner/internal/domain/repository"
	"go.uber.org/zap"
)

type client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	logger      *zap.Logger
}

// NewMapboxClient создает новый клиент для Mapbox API. accessToken comes from
// the secret store unless cfg.AccessToken overrides it.
func NewMapboxClient(cfg *config.MapboxConfig, accessToken string, logger *zap.Logger) repository.MapboxRepository {
	if cfg.AccessToken != "" {
		accessToken = cfg.AccessToken
	}
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:     cfg.BaseURL,
		accessToken: accessToken,
		logger:      logger,
	}
}

// ReverseGeocode вызывает Mapbox Geocoding API для координаты.
// Mapbox ожидает порядок {lon},{lat}.
func (c *client) ReverseGeocode(ctx context.Context, coord domain.Coordinate) (*domain.GeocodingResponse, error) {
	if !coord.IsFinite() {
		return nil, fmt.Errorf("coordinate is not finite: %v", coord)
	}

	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s,%s.json?access_token=%s",
		c.baseURL,
		strconv.FormatFloat(coord.Lon, 'f', -1, 64),
		strconv.FormatFloat(coord.Lat, 'f', -1, 64),
		url.QueryEscape(c.accessToken),
	)

	c.logger.Debug("Calling Mapbox Geocoding API",
		zap.Float64("lat", coord.Lat),
		zap.Float64("lon", coord.Lon))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("mapbox API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var geocodeResp domain.GeocodingResponse
	if err := json.NewDecoder(resp.Body).Decode(&geocodeResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("Mapbox Geocoding API call successful",
		zap.Int("features", len(geocodeResp.Features)))

	return &geocodeResp, nil
}

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/docking-planner/internal/domain"
)

type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetSnapped(ctx context.Context, key domain.CoordinateKey) (*domain.Coordinate, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coordinate), args.Error(1)
}

func (m *MockCacheRepository) SetSnapped(ctx context.Context, key domain.CoordinateKey, snapped domain.Coordinate, ttl time.Duration) error {
	args := m.Called(ctx, key, snapped, ttl)
	return args.Error(0)
}

type MockMapboxRepository struct {
	mock.Mock
}

func (m *MockMapboxRepository) ReverseGeocode(ctx context.Context, coord domain.Coordinate) (*domain.GeocodingResponse, error) {
	args := m.Called(ctx, coord)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeocodingResponse), args.Error(1)
}

type MockStationRepository struct {
	mock.Mock
}

func (m *MockStationRepository) FetchStations(ctx context.Context) ([]domain.Station, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Station), args.Error(1)
}

type MockNodeRepository struct {
	mock.Mock
}

func (m *MockNodeRepository) SaveRun(ctx context.Context, runID uuid.UUID, nodes []domain.Node) error {
	args := m.Called(ctx, runID, nodes)
	return args.Error(0)
}

func (m *MockNodeRepository) LatestRunID(ctx context.Context) (uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockNodeRepository) GetByRun(ctx context.Context, runID uuid.UUID) ([]domain.Node, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Node), args.Error(1)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockObjectStorage) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, body, size, contentType)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishDone(ctx context.Context, event *domain.PipelineDoneEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) ClaimPending(ctx context.Context, stream, group, consumer string, minIdle time.Duration) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, minIdle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

type MockSecretRepository struct {
	mock.Mock
}

func (m *MockSecretRepository) GetSecret(ctx context.Context, name string) (map[string]interface{}, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

// memoryStore хранит рёбра и узлы в памяти вместо CSV-файлов
type memoryStore struct {
	mu       sync.Mutex
	edges    []domain.Edge
	hasEdges bool
	nodes    []domain.Node
	readErr  error
}

func (s *memoryStore) WriteEdges(edges []domain.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges = append([]domain.Edge(nil), edges...)
	s.hasEdges = true
	return nil
}

func (s *memoryStore) ReadEdges() ([]domain.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	return append([]domain.Edge(nil), s.edges...), nil
}

func (s *memoryStore) WriteNodes(nodes []domain.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = append([]domain.Node(nil), nodes...)
	return nil
}

func (s *memoryStore) ReadNodes() ([]domain.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Node(nil), s.nodes...), nil
}

func (s *memoryStore) Encode(nodes []domain.Node) ([]byte, error) {
	return []byte("lat,lon,id,name\n"), nil
}

func feature(lon, lat float64) *domain.GeocodingResponse {
	return &domain.GeocodingResponse{
		Type: "FeatureCollection",
		Features: []domain.GeocodingFeature{
			{Geometry: domain.GeocodingGeometry{Type: "Point", Coordinates: []float64{lon, lat}}},
		},
	}
}

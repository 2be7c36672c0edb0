package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Worker   WorkerConfig
	TfL      TfLConfig
	Mapbox   MapboxConfig
	Secrets  SecretsConfig
	Pipeline PipelineConfig
	Storage  StorageConfig
	Kafka    KafkaConfig
	HexGrid  HexGridConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	SnapCacheTTL  time.Duration
	NodesCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	// ClaimMinIdle - через сколько неподтверждённое сообщение забирается при старте воркера
	ClaimMinIdle time.Duration
}

// TfLConfig - источник станций (TfL BikePoint)
type TfLConfig struct {
	StationsURL    string
	RequestTimeout time.Duration
}

type MapboxConfig struct {
	// AccessToken overrides the token stored in the secret store when set.
	AccessToken    string
	BaseURL        string
	RequestTimeout time.Duration
}

type SecretsConfig struct {
	// Provider is "aws" (Secrets Manager) or "env" (static JSON from SECRET_VALUE).
	Provider    string
	SecretName  string
	MapboxKey   string
	StaticValue string
	Region      string
	Timeout     time.Duration
}

type PipelineConfig struct {
	Stage           string
	EdgesPath       string
	NodesPath       string
	Precision       int
	SnapConcurrency int
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
	ObjectKey string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// HexGridConfig - сетка H3 поверх области планирования
type HexGridConfig struct {
	Path       string
	Resolution int
	// BBox is min_lon, min_lat, max_lon, max_lat.
	BBox []float64
}

func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		viper.SetConfigFile(".env")
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}
	viper.AutomaticEnv()

	setDefaults()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Enabled:         viper.GetBool("DB_ENABLED"),
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  viper.GetBool("REDIS_ENABLED"),
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			SnapCacheTTL:  time.Duration(viper.GetInt("SNAP_CACHE_TTL")) * time.Second,
			NodesCacheTTL: time.Duration(viper.GetInt("NODES_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     viper.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(viper.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			ClaimMinIdle:      time.Duration(viper.GetInt("WORKER_CLAIM_MIN_IDLE")) * time.Second,
		},
		TfL: TfLConfig{
			StationsURL:    viper.GetString("TFL_STATIONS_URL"),
			RequestTimeout: time.Duration(viper.GetInt("TFL_REQUEST_TIMEOUT")) * time.Second,
		},
		Mapbox: MapboxConfig{
			AccessToken:    viper.GetString("MAPBOX_ACCESS_TOKEN"),
			BaseURL:        viper.GetString("MAPBOX_BASE_URL"),
			RequestTimeout: time.Duration(viper.GetInt("MAPBOX_REQUEST_TIMEOUT")) * time.Second,
		},
		Secrets: SecretsConfig{
			Provider:    viper.GetString("SECRET_PROVIDER"),
			SecretName:  viper.GetString("SECRET_NAME"),
			MapboxKey:   viper.GetString("SECRET_MAPBOX_KEY"),
			StaticValue: viper.GetString("SECRET_VALUE"),
			Region:      viper.GetString("AWS_REGION"),
			Timeout:     time.Duration(viper.GetInt("SECRET_TIMEOUT")) * time.Second,
		},
		Pipeline: PipelineConfig{
			Stage:           viper.GetString("PIPELINE_STAGE"),
			EdgesPath:       viper.GetString("PIPELINE_EDGES_PATH"),
			NodesPath:       viper.GetString("PIPELINE_NODES_PATH"),
			Precision:       viper.GetInt("PIPELINE_PRECISION"),
			SnapConcurrency: viper.GetInt("SNAP_CONCURRENCY"),
		},
		Storage: StorageConfig{
			Enabled:   viper.GetBool("STORAGE_ENABLED"),
			Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
			AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
			UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			Bucket:    viper.GetString("STORAGE_BUCKET"),
			Region:    viper.GetString("STORAGE_REGION"),
			ObjectKey: viper.GetString("STORAGE_OBJECT_KEY"),
		},
		Kafka: KafkaConfig{
			Brokers: parseList(viper.GetString("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
		HexGrid: HexGridConfig{
			Path:       viper.GetString("HEXGRID_PATH"),
			Resolution: viper.GetInt("HEXGRID_RESOLUTION"),
		},
	}

	bbox, err := parseFloatList(viper.GetString("HEXGRID_BBOX"))
	if err != nil {
		return nil, fmt.Errorf("invalid HEXGRID_BBOX: %w", err)
	}
	cfg.HexGrid.BBox = bbox

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("API_HOST", "0.0.0.0")
	viper.SetDefault("API_PORT", 5000)
	viper.SetDefault("API_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", 6379)

	viper.SetDefault("SNAP_CACHE_TTL", 7*24*3600)
	viper.SetDefault("NODES_CACHE_TTL", 300)

	viper.SetDefault("WORKER_CONSUMER_GROUP", "pipeline-workers")
	viper.SetDefault("WORKER_STREAM_READ_TIMEOUT", 5000)
	viper.SetDefault("WORKER_CLAIM_MIN_IDLE", 600)

	viper.SetDefault("TFL_STATIONS_URL", "https://api.tfl.gov.uk/BikePoint")
	viper.SetDefault("TFL_REQUEST_TIMEOUT", 30)

	viper.SetDefault("MAPBOX_BASE_URL", "https://api.mapbox.com")
	viper.SetDefault("MAPBOX_REQUEST_TIMEOUT", 10)

	viper.SetDefault("SECRET_PROVIDER", "aws")
	viper.SetDefault("SECRET_NAME", "masters-project")
	viper.SetDefault("SECRET_MAPBOX_KEY", "mapbox_public")
	viper.SetDefault("SECRET_TIMEOUT", 5)

	viper.SetDefault("PIPELINE_STAGE", "all")
	viper.SetDefault("PIPELINE_EDGES_PATH", "Voronoi_edges.csv")
	viper.SetDefault("PIPELINE_NODES_PATH", "potential_nodes.csv")
	viper.SetDefault("PIPELINE_PRECISION", 6)
	viper.SetDefault("SNAP_CONCURRENCY", 4)

	viper.SetDefault("STORAGE_OBJECT_KEY", "potential_nodes.csv")
	viper.SetDefault("KAFKA_TOPIC", "pipeline.done")

	// London
	viper.SetDefault("HEXGRID_PATH", "london_h3_hexagons.geojson")
	viper.SetDefault("HEXGRID_RESOLUTION", 9)
	viper.SetDefault("HEXGRID_BBOX", "-0.510375,51.286760,0.334015,51.691874")
}

// Validate проверяет значения, без которых пайплайн не может работать
func (c *Config) Validate() error {
	switch c.Pipeline.Stage {
	case "edges", "nodes", "all", "hexgrid":
	default:
		return fmt.Errorf("invalid PIPELINE_STAGE %q: must be one of edges, nodes, all, hexgrid", c.Pipeline.Stage)
	}
	if c.Pipeline.Precision < 0 || c.Pipeline.Precision > 12 {
		return fmt.Errorf("invalid PIPELINE_PRECISION %d: must be between 0 and 12", c.Pipeline.Precision)
	}
	if c.Pipeline.SnapConcurrency < 1 {
		c.Pipeline.SnapConcurrency = 1
	}
	switch c.Secrets.Provider {
	case "aws", "env":
	default:
		return fmt.Errorf("invalid SECRET_PROVIDER %q: must be aws or env", c.Secrets.Provider)
	}
	if c.Storage.Enabled && (c.Storage.Endpoint == "" || c.Storage.Bucket == "") {
		return fmt.Errorf("STORAGE_ENDPOINT and STORAGE_BUCKET are required when STORAGE_ENABLED=true")
	}
	if c.HexGrid.Resolution < 0 || c.HexGrid.Resolution > 15 {
		return fmt.Errorf("invalid HEXGRID_RESOLUTION %d: must be between 0 and 15", c.HexGrid.Resolution)
	}
	if b := c.HexGrid.BBox; len(b) != 4 || b[0] >= b[2] || b[1] >= b[3] {
		return fmt.Errorf("invalid HEXGRID_BBOX %v: want min_lon,min_lat,max_lon,max_lat", b)
	}
	return nil
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseFloatList(s string) ([]float64, error) {
	parts := parseList(s)
	result := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

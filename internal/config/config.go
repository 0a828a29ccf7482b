package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Map       MapConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	PublicURL    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// ListTTL bounds staleness of the cached GET /orphanages payload.
	ListTTL time.Duration
}

type StorageConfig struct {
	// UploadsDir is used by the local blob store; ignored when MinIO is configured.
	UploadsDir string
	MinIO      MinIOConfig
}

type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Bucket        string
	PresignExpiry time.Duration
}

// MapConfig carries the tile-layer access token. The token only affects the
// visual tile layer on clients; the data API works without it.
type MapConfig struct {
	TileToken string
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "3333")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("MONGODB_DATABASE", "happymap")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_LIST_TTL", 30)
	viper.SetDefault("UPLOADS_DIR", "uploads")
	viper.SetDefault("MINIO_BUCKET", "happymap-images")
	viper.SetDefault("MINIO_PRESIGN_EXPIRY", 3600)
	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_RPS", 20.0)
	viper.SetDefault("RATE_LIMIT_BURST", 40)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			PublicURL:    viper.GetString("SERVER_PUBLIC_URL"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       0,
			ListTTL:  time.Duration(viper.GetInt("REDIS_LIST_TTL")) * time.Second,
		},
		Storage: StorageConfig{
			UploadsDir: viper.GetString("UPLOADS_DIR"),
			MinIO: MinIOConfig{
				Endpoint:      viper.GetString("MINIO_ENDPOINT"),
				AccessKey:     viper.GetString("MINIO_ACCESS_KEY"),
				SecretKey:     viper.GetString("MINIO_SECRET_KEY"),
				UseSSL:        viper.GetBool("MINIO_USE_SSL"),
				Bucket:        viper.GetString("MINIO_BUCKET"),
				PresignExpiry: time.Duration(viper.GetInt("MINIO_PRESIGN_EXPIRY")) * time.Second,
			},
		},
		Map: MapConfig{
			TileToken: viper.GetString("MAPBOX_TOKEN"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	if cfg.Server.PublicURL == "" {
		cfg.Server.PublicURL = "http://localhost:" + cfg.Server.Port
	}

	return cfg, nil
}

package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Client   ClientConfig
	Upload   UploadConfig
	Server   ServerConfig
	Proxy    ProxyConfig
	Jobs     JobsConfig
	Minio    MinioConfig
	NATS     NATSConfig
	Database DatabaseConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

// ClientConfig drives the conversion client used by cmd/convert
type ClientConfig struct {
	APIBaseURL      string        `envconfig:"CONVERT_API_BASE_URL" default:"http://localhost:8080"`
	HTTPTimeout     time.Duration `envconfig:"CONVERT_HTTP_TIMEOUT" default:"30s"`
	TransferTimeout time.Duration `envconfig:"CONVERT_TRANSFER_TIMEOUT" default:"0s"`
	PollInterval    time.Duration `envconfig:"CONVERT_POLL_INTERVAL" default:"2s"`
	// Zero means no limit.
	PollMaxAttempts int           `envconfig:"CONVERT_POLL_MAX_ATTEMPTS" default:"0"`
	PollMaxDuration time.Duration `envconfig:"CONVERT_POLL_MAX_DURATION" default:"0s"`
	// Zero fails an item on its first status fetch error.
	PollErrorRetries int    `envconfig:"CONVERT_POLL_ERROR_RETRIES" default:"0"`
	Language         string `envconfig:"CONVERT_LANGUAGE" default:"en"`
}

type UploadConfig struct {
	// Empty uses the built-in allow-list.
	AllowedTypes []string `envconfig:"UPLOAD_ALLOWED_TYPES"`
	MaxSize      int64    `envconfig:"UPLOAD_MAX_SIZE" default:"0"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type ProxyConfig struct {
	UpstreamURL string        `envconfig:"PROXY_UPSTREAM_URL" required:"true"`
	Timeout     time.Duration `envconfig:"PROXY_TIMEOUT" default:"60s"`
}

// JobsConfig bounds how long the dev backend remembers jobs
type JobsConfig struct {
	TTL          time.Duration `envconfig:"JOBS_TTL" default:"1h"`
	CleanupEvery time.Duration `envconfig:"JOBS_CLEANUP_EVERY" default:"10m"`
}

type MinioConfig struct {
	Endpoint                  string        `envconfig:"MINIO_ENDPOINT" required:"true"`
	BucketName                string        `envconfig:"MINIO_BUCKET_NAME" required:"true"`
	AccessKey                 string        `envconfig:"MINIO_ACCESS_KEY" required:"true"`
	SecretKey                 string        `envconfig:"MINIO_SECRET_KEY" required:"true"`
	UploadPresignedDuration   time.Duration `envconfig:"MINIO_UPLOAD_PRESIGNED_DURATION" default:"15m"`
	DownloadSignedURLDuration time.Duration `envconfig:"MINIO_DOWNLOAD_SIGNED_URL_DURATION" default:"15m"`
	UseSSL                    bool          `envconfig:"MINIO_USE_SSL" default:"false"`
}

type NATSConfig struct {
	URL          string `envconfig:"NATS_URL" required:"true"`
	StreamName   string `envconfig:"NATS_STREAM_NAME" default:"CONVERSIONS"`
	Subject      string `envconfig:"NATS_SUBJECT" default:"conversions.items"`
	ConsumerName string `envconfig:"NATS_CONSUMER_NAME" default:"convert-watch"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

// Load reads every section. Binaries that only need some of them use the Load* helpers below.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ClientSettings is what cmd/convert needs to run conversions
type ClientSettings struct {
	Env    Env
	Client ClientConfig
	Upload UploadConfig
}

func LoadClient() (*ClientSettings, error) {
	var cfg ClientSettings
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ProxySettings is what cmd/proxy needs
type ProxySettings struct {
	Env    Env
	Server ServerConfig
	Proxy  ProxyConfig
}

func LoadProxy() (*ProxySettings, error) {
	var cfg ProxySettings
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// BackendSettings is what cmd/devbackend needs
type BackendSettings struct {
	Env    Env
	Server ServerConfig
	Jobs   JobsConfig
	Minio  MinioConfig
}

func LoadBackend() (*BackendSettings, error) {
	var cfg BackendSettings
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadDatabase() (*DatabaseConfig, error) {
	var cfg DatabaseConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadNATS() (*NATSConfig, error) {
	var cfg NATSConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

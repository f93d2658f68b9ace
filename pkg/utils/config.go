package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Rates    RatesConfig
	Storage  StorageConfig
	Session  SessionConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// RatesConfig drives the exchange rate cache
type RatesConfig struct {
	SourceURL       string
	Canonical       string
	RefreshInterval time.Duration
	Timeout         time.Duration
}

type StorageConfig struct {
	Driver          string // fs | sftp
	Root            string
	PublicBaseURL   string
	DefaultImageURL string
	SFTPAddr        string
	SFTPUser        string
	SFTPPassword    string
	UploadWorkers   int
}

// SessionConfig controls housekeeping of the sessions issued by the auth service
type SessionConfig struct {
	CleanupInterval time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "band-market")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("RATES_SOURCE_URL", "https://open.er-api.com/v6/latest")
	viper.SetDefault("RATES_CANONICAL", "USD")
	viper.SetDefault("RATES_REFRESH_INTERVAL", "24h")
	viper.SetDefault("RATES_TIMEOUT", "10s")
	viper.SetDefault("STORAGE_DRIVER", "fs")
	viper.SetDefault("STORAGE_ROOT", "uploads/")
	viper.SetDefault("STORAGE_PUBLIC_BASE_URL", "http://localhost:8080/static")
	viper.SetDefault("STORAGE_DEFAULT_IMAGE_URL", "http://localhost:8080/static/default/product.png")
	viper.SetDefault("STORAGE_UPLOAD_WORKERS", 4)
	viper.SetDefault("SESSION_CLEANUP_INTERVAL", "6h")

	// .env is optional, plain environment variables are enough in containers
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Rates: RatesConfig{
			SourceURL:       viper.GetString("RATES_SOURCE_URL"),
			Canonical:       viper.GetString("RATES_CANONICAL"),
			RefreshInterval: viper.GetDuration("RATES_REFRESH_INTERVAL"),
			Timeout:         viper.GetDuration("RATES_TIMEOUT"),
		},
		Storage: StorageConfig{
			Driver:          viper.GetString("STORAGE_DRIVER"),
			Root:            viper.GetString("STORAGE_ROOT"),
			PublicBaseURL:   viper.GetString("STORAGE_PUBLIC_BASE_URL"),
			DefaultImageURL: viper.GetString("STORAGE_DEFAULT_IMAGE_URL"),
			SFTPAddr:        viper.GetString("STORAGE_SFTP_ADDR"),
			SFTPUser:        viper.GetString("STORAGE_SFTP_USER"),
			SFTPPassword:    viper.GetString("STORAGE_SFTP_PASS"),
			UploadWorkers:   viper.GetInt("STORAGE_UPLOAD_WORKERS"),
		},
		Session: SessionConfig{
			CleanupInterval: viper.GetDuration("SESSION_CLEANUP_INTERVAL"),
		},
	}

	return config, nil
}

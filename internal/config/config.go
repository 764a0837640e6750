package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server" envPrefix:"SERVER_"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DATABASE_"`
	Storage  StorageConfig  `yaml:"storage" envPrefix:"STORAGE_"`
	JWT      JWTConfig      `yaml:"jwt" envPrefix:"JWT_"`
	Log      LogConfig      `yaml:"log" envPrefix:"LOG_"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `yaml:"port" env:"PORT"`
	Host string `yaml:"host" env:"HOST"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"DBNAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
}

// StorageConfig holds file storage configuration.
// Driver selects the backend: "filesystem" or "s3".
type StorageConfig struct {
	Driver string `yaml:"driver" env:"DRIVER"`

	// Filesystem backend
	Root    string `yaml:"root" env:"ROOT"`
	BaseURL string `yaml:"base_url" env:"BASE_URL"`

	// S3 backend
	Region       string `yaml:"region" env:"REGION"`
	Bucket       string `yaml:"bucket" env:"BUCKET"`
	AccessKey    string `yaml:"access_key" env:"ACCESS_KEY"`
	SecretKey    string `yaml:"secret_key" env:"SECRET_KEY"`
	Endpoint     string `yaml:"endpoint" env:"ENDPOINT"`
	UsePathStyle bool   `yaml:"use_path_style" env:"USE_PATH_STYLE"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string `yaml:"secret" env:"SECRET"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
}

// Load reads configuration from a YAML file and applies
// environment variable overrides on top of it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	return &cfg, nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the connection URL used by the migration runner
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

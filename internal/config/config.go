package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Platform PlatformConfig `yaml:"platform"`
	Storage  StorageConfig  `yaml:"storage"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address" env:"HTTP_ADDRESS" env-default:""`
	AllowedOrigins []string `yaml:"allowed_origins" env-default:""`
}

type DatabaseConfig struct {
	DSN             string        `yaml:"dsn" env:"DATABASE_DSN"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"10"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"25"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"30m"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
}

type PlatformConfig struct {
	BaseURL string        `yaml:"base_url" env:"PLATFORM_BASE_URL"`
	APIKey  string        `yaml:"api_key" env:"PLATFORM_API_KEY"`
	Timeout time.Duration `yaml:"timeout" env-default:"30s"`
}

type StorageConfig struct {
	BaseURL      string        `yaml:"base_url" env:"STORAGE_BASE_URL"`
	ServiceKey   string        `yaml:"service_key" env:"STORAGE_SERVICE_KEY"`
	Bucket       string        `yaml:"bucket" env:"STORAGE_BUCKET" env-default:"meetings"`
	SignedURLTTL time.Duration `yaml:"signed_url_ttl" env-default:"1h"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	cfg.setDefaults()

	return &cfg
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	if res == "" {
		res = "config/local.yaml"
	}

	return res
}

func (c *Config) setDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if len(c.HTTP.AllowedOrigins) == 0 {
		c.HTTP.AllowedOrigins = []string{"http://localhost:3000"}
	}
}

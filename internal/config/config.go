package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`

	JWT struct {
		Secret        string `yaml:"secret"`
		UserTTLDays   int    `yaml:"user_ttl_days"`
		AdminTTLHours int    `yaml:"admin_ttl_hours"`
	} `yaml:"jwt"`

	COS struct {
		Enabled      bool   `yaml:"enabled"`
		Bucket       string `yaml:"bucket"`
		Region       string `yaml:"region"`
		Endpoint     string `yaml:"endpoint"`      // S3-compatible endpoint; derived from region when empty
		AuthEndpoint string `yaml:"auth_endpoint"` // issuer of short-lived credentials
		OpenAPIBase  string `yaml:"openapi_base"`  // metadata tag encode/decode service
	} `yaml:"cos"`

	Upload struct {
		MaxPhotoSize    int64  `yaml:"max_photo_size"`    // bytes, photos
		MaxDocumentSize int64  `yaml:"max_document_size"` // bytes, business licenses
		BasePath        string `yaml:"base_path"`         // local fallback root
		BaseURL         string `yaml:"base_url"`          // public prefix for local files
	} `yaml:"upload"`

	Admin struct {
		Username     string `yaml:"username"`
		PasswordHash string `yaml:"password_hash"` // bcrypt
	} `yaml:"admin"`
}

var AppConfig *Config

// LoadConfig reads config.yaml, or falls back to environment variables
// when DATABASE_DSN is set (the mode tests run in).
func LoadConfig() {
	var cfg Config

	dsn := os.Getenv("DATABASE_DSN")

	if dsn == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Loading configuration from environment (test mode)")

	cfg.Database.DSN = dsn
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")

	cfg.COS.Bucket = os.Getenv("COS_BUCKET")
	cfg.COS.Region = os.Getenv("COS_REGION")
	cfg.COS.Enabled = cfg.COS.Bucket != "" && cfg.COS.Region != ""

	cfg.Upload.BasePath = "./uploads"
	cfg.Upload.BaseURL = "/uploads"

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.JWT.UserTTLDays == 0 {
		cfg.JWT.UserTTLDays = 7
	}
	if cfg.JWT.AdminTTLHours == 0 {
		cfg.JWT.AdminTTLHours = 24
	}
	if cfg.Upload.MaxPhotoSize == 0 {
		cfg.Upload.MaxPhotoSize = 10 * 1024 * 1024
	}
	if cfg.Upload.MaxDocumentSize == 0 {
		cfg.Upload.MaxDocumentSize = 5 * 1024 * 1024
	}
	if cfg.Upload.BasePath == "" {
		cfg.Upload.BasePath = "./uploads"
	}
	if cfg.Upload.BaseURL == "" {
		cfg.Upload.BaseURL = "/uploads"
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

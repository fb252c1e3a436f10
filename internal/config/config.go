package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Storage   StorageConfig   `json:"storage"`
	Gotenberg GotenbergConfig `json:"gotenberg"`
}

type ServerConfig struct {
	Port         string   `json:"port"`
	Environment  string   `json:"environment"`
	BaseURL      string   `json:"base_url"`
	AdminKey     string   `json:"admin_key"`
	AllowOrigins []string `json:"allow_origins"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
}

type StorageConfig struct {
	GCSBucket       string        `json:"gcs_bucket"`
	CredentialsPath string        `json:"credentials_path"`
	LocalDir        string        `json:"local_dir"`
	ScratchDir      string        `json:"scratch_dir"`
	Retention       time.Duration `json:"retention"`
}

type GotenbergConfig struct {
	URL     string `json:"url"`
	Timeout string `json:"timeout"`
}

func (d *DatabaseConfig) DSN() string {
	// Cloud SQL Unix socket support
	if len(d.Host) > 0 && d.Host[0] == '/' {
		return fmt.Sprintf("%s:%s@unix(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.DBName)
	}
	// Standard TCP connection
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

// UseGCS reports whether file storage should go to GCS instead of local
// disk.
func (s *StorageConfig) UseGCS() bool {
	return s.GCSBucket != ""
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Failed to load .env file: %v, using system environment variables\n", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			BaseURL:      getEnv("BASE_URL", ""),
			AdminKey:     getEnv("ADMIN_KEY", ""),
			AllowOrigins: parseAllowOrigins(),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "docugen"),
		},
		Storage: StorageConfig{
			GCSBucket:       getEnv("GCS_BUCKET_NAME", ""),
			CredentialsPath: getEnv("GCS_CREDENTIALS_PATH", ""),
			LocalDir:        getEnv("STORAGE_DIR", "data/storage"),
			ScratchDir:      getEnv("SCRATCH_DIR", "data/scratch"),
			Retention:       parseRetention(),
		},
		Gotenberg: GotenbergConfig{
			URL:     getEnv("GOTENBERG_URL", ""),
			Timeout: getEnv("GOTENBERG_TIMEOUT", "30s"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseRetention() time.Duration {
	raw := getEnv("SCRATCH_RETENTION", "24h")
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

func parseAllowOrigins() []string {
	if origins := os.Getenv("ALLOW_ORIGINS"); origins != "" {
		var allowOrigins []string
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				allowOrigins = append(allowOrigins, trimmed)
			}
		}
		return allowOrigins
	}

	// Default origins if none specified
	return []string{
		"http://localhost:3000",
		"http://localhost:3001",
	}
}

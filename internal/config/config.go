package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Bot      BotConfig
	Database DatabaseConfig
	Server   ServerConfig
	Backup   BackupConfig
}

// BotConfig holds Telegram bot settings
type BotConfig struct {
	Token        string
	Username     string
	AdminID      int64
	NequiNumber  string
	ReceiptDir   string
	TesseractCmd string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver   string // "sqlite" or "postgres"
	Path     string // sqlite only
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port          string
	DownloadToken string
}

// BackupConfig holds scheduled backup settings
type BackupConfig struct {
	IntervalHours int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	adminID, err := strconv.ParseInt(getEnv("ADMIN_ID", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_ID: %w", err)
	}

	intervalHours, err := strconv.Atoi(getEnv("BACKUP_INTERVAL_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKUP_INTERVAL_HOURS: %w", err)
	}

	config := &Config{
		Bot: BotConfig{
			Token:        getEnv("BOT_TOKEN", ""),
			Username:     getEnv("BOT_USERNAME", "InversionesCT_bot"),
			AdminID:      adminID,
			NequiNumber:  getEnv("NEQUI_DESTINO", ""),
			ReceiptDir:   getEnv("RECEIPT_DIR", "comprobantes"),
			TesseractCmd: getEnv("TESSERACT_CMD", ""),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			Path:     getEnv("DB_PATH", "inversionesct.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "inversionesct"),
		},
		Server: ServerConfig{
			Port:          getEnv("SERVER_PORT", "8080"),
			DownloadToken: getEnv("DB_DOWNLOAD_TOKEN", ""),
		},
		Backup: BackupConfig{
			IntervalHours: intervalHours,
		},
	}

	// Validate required fields
	if config.Bot.Token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	if config.Bot.AdminID == 0 {
		return nil, fmt.Errorf("ADMIN_ID is required")
	}

	if config.Bot.NequiNumber == "" {
		return nil, fmt.Errorf("NEQUI_DESTINO is required")
	}

	if config.Server.DownloadToken == "" {
		// Default gate when no token is configured.
		config.Server.DownloadToken = strconv.FormatInt(config.Bot.AdminID, 10)
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

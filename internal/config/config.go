package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendCache  = "cache"
)

type Config struct {
	TelegramToken string  `yaml:"telegram_token" envconfig:"TELEGRAM_TOKEN"`
	DBDSN         string  `yaml:"db_dsn" envconfig:"DB_DSN"`
	Environment   string  `yaml:"env" envconfig:"ENV"`
	AdminIDs      []int64 `yaml:"admin_ids" envconfig:"ADMIN_IDS"`

	DataDir        string `yaml:"data_dir" envconfig:"DATA_DIR"`
	MigrationsPath string `yaml:"migrations_path" envconfig:"MIGRATIONS_PATH"`

	SessionBackend string        `yaml:"session_backend" envconfig:"SESSION_BACKEND"`
	SessionTTL     time.Duration `yaml:"session_ttl" envconfig:"SESSION_TTL"`

	// Пауза между сообщениями рассылки
	BroadcastInterval time.Duration `yaml:"broadcast_interval" envconfig:"BROADCAST_INTERVAL"`

	Timezone             string `yaml:"timezone" envconfig:"TIMEZONE"`
	DailyTipAt           string `yaml:"daily_tip_at" envconfig:"DAILY_TIP_AT"`
	InactiveDays         int    `yaml:"inactive_days" envconfig:"INACTIVE_DAYS"`
	NotificationsEnabled *bool  `yaml:"notifications_enabled" envconfig:"NOTIFICATIONS_ENABLED"`
}

// Load читает конфигурацию: .env -> YAML файл из CONFIG_FILE (если задан) -> переменные окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Переменные окружения перекрывают значения из файла
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

// Normalize проставляет значения по умолчанию и проверяет обязательные поля
func (c *Config) Normalize() error {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.MigrationsPath == "" {
		c.MigrationsPath = "migrations"
	}

	c.SessionBackend = strings.ToLower(strings.TrimSpace(c.SessionBackend))
	switch c.SessionBackend {
	case "":
		c.SessionBackend = SessionBackendCache
	case SessionBackendMemory, SessionBackendCache:
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 24 * time.Hour
	}

	if c.BroadcastInterval <= 0 {
		c.BroadcastInterval = 50 * time.Millisecond
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/Moscow"
	}
	if c.DailyTipAt == "" {
		c.DailyTipAt = "09:00"
	}
	if c.InactiveDays <= 0 {
		c.InactiveDays = 7
	}
	if c.NotificationsEnabled == nil {
		enabled := true
		c.NotificationsEnabled = &enabled
	}

	// Проверяем обязательные поля
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required but not set")
	}

	return nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// IsAdmin проверяет, входит ли пользователь в список администраторов
func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

// Location возвращает часовой пояс для планировщика
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

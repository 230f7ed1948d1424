package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Драйверы хранилища заявок
const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig   // Настройки HTTP сервера
	Storage  StorageConfig  // Выбор хранилища заявок
	Database DatabaseConfig // Настройки подключения к PostgreSQL
	SQLite   SQLiteConfig   // Настройки файлового хранилища
	JWT      JWTConfig      // Настройки JWT сессий
	SMTP     SMTPConfig     // Настройки отправки писем
	Identity IdentityConfig // Провайдер идентификации
	Content  ContentConfig  // Статический контент
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port string `envconfig:"SERVER_PORT" default:"8080"`
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
}

// StorageConfig определяет, какое хранилище использовать
type StorageConfig struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"postgres"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"ksc"`
	Password string `envconfig:"DB_PASSWORD" default:"ksc_pass"`
	Name     string `envconfig:"DB_NAME" default:"ksc_recruitment"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"2"`
}

// SQLiteConfig содержит путь к файлу SQLite
type SQLiteConfig struct {
	Path string `envconfig:"SQLITE_PATH" default:"submissions.db"`
}

// JWTConfig содержит настройки JWT сессий
type JWTConfig struct {
	Secret          string `envconfig:"JWT_SECRET" required:"true"`
	ExpirationHours int    `envconfig:"JWT_EXPIRATION_HOURS" default:"12"`
}

// SMTPConfig содержит настройки почтового сервера и политики повторов.
// Пустой Host отключает отправку писем.
type SMTPConfig struct {
	Host            string        `envconfig:"SMTP_SERVER"`
	Port            int           `envconfig:"SMTP_PORT" default:"587"`
	Username        string        `envconfig:"SMTP_USERNAME"`
	Password        string        `envconfig:"SMTP_PASSWORD"`
	SenderName      string        `envconfig:"SENDER_NAME" default:"Knowledge Sharing Circle"`
	SenderEmail     string        `envconfig:"SENDER_EMAIL"`
	TemplatePath    string        `envconfig:"SMTP_TEMPLATE_PATH"`
	MaxAttempts     int           `envconfig:"SMTP_MAX_ATTEMPTS" default:"3"`
	InitialInterval time.Duration `envconfig:"SMTP_INITIAL_INTERVAL" default:"1s"`
	DialTimeout     time.Duration `envconfig:"SMTP_DIAL_TIMEOUT" default:"10s"`
	SendTimeout     time.Duration `envconfig:"SMTP_SEND_TIMEOUT" default:"30s"` // Предел одной попытки отправки
}

// Enabled возвращает true если почтовый сервер настроен
func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

// Addr возвращает адрес почтового сервера host:port
func (s SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IdentityConfig содержит адрес userinfo эндпоинта провайдера
type IdentityConfig struct {
	UserInfoURL string        `envconfig:"IDENTITY_USERINFO_URL" default:"https://openidconnect.googleapis.com/v1/userinfo"`
	Timeout     time.Duration `envconfig:"IDENTITY_TIMEOUT" default:"10s"`
}

// ContentConfig содержит путь к файлу статического контента
type ContentConfig struct {
	Path string `envconfig:"CONTENT_PATH" default:"configs/content.yaml"`
}

// GetExpiration возвращает срок действия токена как time.Duration
func (j JWTConfig) GetExpiration() time.Duration {
	return time.Duration(j.ExpirationHours) * time.Hour
}

// DSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Load читает конфигурацию из переменных окружения
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	switch cfg.Storage.Driver {
	case StorageDriverPostgres, StorageDriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	return &cfg, nil
}

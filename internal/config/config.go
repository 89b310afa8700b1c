package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config хранит настройки процесса, читаемые из окружения.
type Config struct {
	DatabaseURL     string        `env:"DATABASE_URL"`
	AdminPassword   string        `env:"ADMIN_PASSWORD"`
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":3000"`
	AMQPURL         string        `env:"AMQP_URL"`
	AMQPQueue       string        `env:"AMQP_QUEUE" envDefault:"news.created"`
	LogCredentials  bool          `env:"LOG_CREDENTIALS" envDefault:"false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	Debug           bool          `env:"DEBUG" envDefault:"false"`
}

// Validate проверяет адрес HTTP-сервера, таймаут и настройки очереди.
func (cfg *Config) Validate() error {
	if _, _, err := net.SplitHostPort(cfg.HTTPAddr); err != nil {
		return fmt.Errorf("invalid HTTP address %q: %w", cfg.HTTPAddr, err)
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	if cfg.AMQPURL != "" && cfg.AMQPQueue == "" {
		return errors.New("AMQP queue name is required when AMQP_URL is set")
	}
	return nil
}

// CheckRequired сообщает о незаданных DATABASE_URL и ADMIN_PASSWORD.
// Это не мешает запуску: без базы запросы к данным вернут 500,
// а без пароля любая попытка записи получит 401.
func (cfg *Config) CheckRequired() error {
	var errs []error
	if cfg.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if cfg.AdminPassword == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD is not set"))
	}
	return errors.Join(errs...)
}

// PublishEvents сообщает, настроена ли публикация событий в RabbitMQ.
func (cfg *Config) PublishEvents() bool {
	return cfg.AMQPURL != ""
}

// LoadConfig читает переменные окружения в Config.
// Значения из envFiles (формат .env) подставляются, только если переменная
// не задана в окружении процесса. Отсутствующие файлы пропускаются.
func LoadConfig(envFiles ...string) (*Config, error) {
	vars := make(map[string]string)
	for _, path := range envFiles {
		fileVars, err := godotenv.Read(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for k, v := range fileVars {
			if _, ok := vars[k]; !ok {
				vars[k] = v
			}
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

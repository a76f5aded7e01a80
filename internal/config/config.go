// Package config предоставляет структуры и функции для загрузки конфигурации
// клиента платформы и сервера-дублёра workshops-api.
//
// Конфигурация читается из YAML-файла (путь в CONFIG_PATH или флаге --config),
// значения можно переопределить переменными окружения. Без файла используются
// только переменные окружения и значения по умолчанию.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env           string        `yaml:"env" env:"ENV" env-default:"local"`
	API           APIClient     `yaml:"api"`
	TokenStore    TokenStore    `yaml:"token_store"`
	Notifications Notifications `yaml:"notifications"`
	HTTPServer    `yaml:"http_server"`
	JWTToken      `yaml:"jwttoken"`
	SMTP          SMTP    `yaml:"smtp"`
	FakeAPI       FakeAPI `yaml:"fake_api"`
}

// APIClient настройки клиента REST API.
type APIClient struct {
	BaseURL string `yaml:"base_url" env:"WORKSHOP_API_URL" env-default:"http://localhost:8000/api"`
	// Timeout 0 означает отсутствие клиентского таймаута.
	Timeout time.Duration `yaml:"timeout" env:"WORKSHOP_API_TIMEOUT" env-default:"0s"`
}

// TokenStore настройки долговременного хранилища токена.
type TokenStore struct {
	// Driver: file, redis или memory.
	Driver          string          `yaml:"driver" env:"TOKEN_STORE_DRIVER" env-default:"file"`
	Path            string          `yaml:"path" env:"TOKEN_STORE_PATH"`
	Key             string          `yaml:"key" env:"TOKEN_STORE_KEY" env-default:"workshops:token"`
	RedisConnection RedisConnection `yaml:"redis_connection"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	Addr        string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	User        string        `yaml:"user" env:"REDIS_USER"`
	DB          int           `yaml:"db" env:"REDIS_DB"`
	MaxRetries  int           `yaml:"max_retries"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Notifications настройки канала уведомлений.
type Notifications struct {
	DisplayDuration time.Duration `yaml:"display_duration" env:"NOTIFICATION_DURATION" env-default:"6s"`
}

// HTTPServer структура для настройки сервера workshops-api.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// JWTToken структура для работы с jwt-токеном workshops-api.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-default:"dev-secret-change-me"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"JWT_TOKEN_TTL" env-default:"30m"`
}

// SMTP настройки отправки писем workshops-api. Пустой Host — письма
// складываются в память и пишутся в лог.
type SMTP struct {
	Host string `yaml:"host" env:"SMTP_HOST"`
	Port string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User string `yaml:"user" env:"SMTP_USER"`
	Pass string `yaml:"pass" env:"SMTP_PASS"`
	From string `yaml:"from" env:"SMTP_FROM" env-default:"no-reply@workshops.local"`
}

// FakeAPI поведение сервера-дублёра.
type FakeAPI struct {
	OTPTTL        time.Duration `yaml:"otp_ttl" env-default:"30m"`
	LoginRate     float64       `yaml:"login_rate" env-default:"5"`
	LoginBurst    int           `yaml:"login_burst" env-default:"10"`
	AdminEmail    string        `yaml:"admin_email" env:"FAKE_API_ADMIN_EMAIL"`
	AdminPassword string        `yaml:"admin_password" env:"FAKE_API_ADMIN_PASSWORD"`
	// OTPCache: memory или redis.
	OTPCache        string          `yaml:"otp_cache" env:"FAKE_API_OTP_CACHE" env-default:"memory"`
	RedisConnection RedisConnection `yaml:"redis_connection"`
	// BcryptCost 0 означает bcrypt.DefaultCost.
	BcryptCost int `yaml:"bcrypt_cost" env-default:"0"`
}

// Load читает конфигурацию из path (или CONFIG_PATH, если path пуст).
// Если путь не задан вовсе, конфигурация собирается из окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфигурацию и завершает процесс при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"API:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"TokenStore:\n"+
			"  Driver: %s\n"+
			"  Path: %s\n"+
			"  Key: %s\n"+
			"  RedisAddr: %s\n"+
			"Notifications:\n"+
			"  DisplayDuration: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  JWTSecretKey: %s\n"+
			"  TokenTTL: %s\n",
		c.Env,
		c.API.BaseURL,
		c.API.Timeout,
		c.TokenStore.Driver,
		c.TokenStore.Path,
		c.TokenStore.Key,
		c.TokenStore.RedisConnection.Addr,
		c.Notifications.DisplayDuration,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		mask(c.JWTSecretKey),
		c.TokenTTL,
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return strings.Repeat("*", 8)
}

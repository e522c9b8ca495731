package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Виды оценщиков
const (
	ScorerHeuristic = "heuristic"
	ScorerONNX      = "onnx"
)

type Config struct {
	TelegramToken string
	HTTPAddr      string
	LogLevel      string

	Scorer            string
	ScorerFallback    bool // при ошибке загрузки модели переходить на эвристику
	ModelPath         string
	ModelMetadataPath string

	ConfidenceFloor float64
	MaxUploadBytes  int64
	MaxPixels       int

	ShutdownTimeout time.Duration
}

// Load читает конфигурацию из окружения и .env в рабочей директории.
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()
	return fromEnv()
}

// LoadFile читает конфигурацию, предварительно загрузив указанный env-файл.
// Переменные окружения имеют приоритет над файлом.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("load env file %s: %w", path, err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	p := parser{}
	cfg := &Config{
		TelegramToken:     os.Getenv("TELEGRAM_TOKEN"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Scorer:            strings.ToLower(getEnv("SCORER", ScorerHeuristic)),
		ScorerFallback:    p.bool("SCORER_FALLBACK", true),
		ModelPath:         getEnv("MODEL_PATH", "models/fruit_quality.onnx"),
		ModelMetadataPath: getEnv("MODEL_METADATA_PATH", "models/fruit_quality.json"),
		ConfidenceFloor:   p.float("CONFIDENCE_FLOOR", 0),
		MaxUploadBytes:    int64(p.int("MAX_UPLOAD_BYTES", 10<<20)),
		MaxPixels:         p.int("MAX_PIXELS", 50_000_000),
		ShutdownTimeout:   p.duration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, которые нельзя исправить по умолчанию.
func (c *Config) Validate() error {
	var errs []error
	if c.Scorer != ScorerHeuristic && c.Scorer != ScorerONNX {
		errs = append(errs, fmt.Errorf("SCORER must be %q or %q, got %q", ScorerHeuristic, ScorerONNX, c.Scorer))
	}
	if c.ConfidenceFloor < 0 || c.ConfidenceFloor > 0.9 {
		errs = append(errs, fmt.Errorf("CONFIDENCE_FLOOR must be within [0, 0.9]"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES must be positive"))
	}
	if c.MaxPixels < 0 {
		errs = append(errs, fmt.Errorf("MAX_PIXELS must not be negative"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parser копит ошибки разбора, чтобы сообщить обо всех сразу.
type parser struct {
	errs []error
}

func (p *parser) int(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func (p *parser) float(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func (p *parser) bool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

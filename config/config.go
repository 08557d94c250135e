package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Значения по умолчанию повторяют параметры обученной модели и выходного видео.
const (
	DefaultFourCC        = "mp4v"
	DefaultTargetWidth   = 1280
	DefaultTargetHeight  = 720
	DefaultFPS           = 30
	DefaultBackend       = "dnn"
	DefaultConfThreshold = 0.25
	DefaultIOUThreshold  = 0.45
	DefaultInputSize     = 640
	DefaultLogLevel      = "info"
)

type Config struct {
	ModelPath     string  `validate:"required"`
	InputVideo    string  `validate:"required"`
	OutputVideo   string  `validate:"required"`
	OutputFourCC  string  `validate:"len=4"`
	TargetWidth   int     `validate:"gt=0"`
	TargetHeight  int     `validate:"gt=0"`
	DefaultFPS    int     `validate:"gt=0"`
	Backend       string  `validate:"oneof=dnn onnx"`
	InputSize     int     `validate:"gt=0"`
	ConfThreshold float64 `validate:"gte=0,lte=1"`
	IOUThreshold  float64 `validate:"gte=0,lte=1"`

	// Таблица классов: файл data.yaml или список через запятую.
	ClassNamesFile string
	ClassNames     []string

	// Датасет для валидации (data.yaml). Пусто — валидация пропускается.
	ValidationData string

	OnnxRuntimeLib string

	TelegramToken  string
	TelegramChatID int64

	LogLevel string `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFile  string
}

// PublishEnabled сообщает, настроена ли отправка результата в Telegram.
func (c *Config) PublishEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		ModelPath:      os.Getenv("MODEL_PATH"),
		InputVideo:     os.Getenv("INPUT_VIDEO"),
		OutputVideo:    os.Getenv("OUTPUT_VIDEO"),
		OutputFourCC:   getString("OUTPUT_FOURCC", DefaultFourCC),
		Backend:        strings.ToLower(getString("DETECTOR_BACKEND", DefaultBackend)),
		ClassNamesFile: os.Getenv("CLASS_NAMES_FILE"),
		ClassNames:     splitList(os.Getenv("CLASS_NAMES")),
		ValidationData: os.Getenv("VALIDATION_DATA"),
		OnnxRuntimeLib: os.Getenv("ONNXRUNTIME_LIB"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		LogLevel:       strings.ToLower(getString("LOG_LEVEL", DefaultLogLevel)),
		LogFile:        os.Getenv("LOG_FILE"),
	}

	var err error
	if cfg.TargetWidth, err = getInt("TARGET_WIDTH", DefaultTargetWidth); err != nil {
		return nil, err
	}
	if cfg.TargetHeight, err = getInt("TARGET_HEIGHT", DefaultTargetHeight); err != nil {
		return nil, err
	}
	if cfg.DefaultFPS, err = getInt("DEFAULT_FPS", DefaultFPS); err != nil {
		return nil, err
	}
	if cfg.InputSize, err = getInt("MODEL_INPUT_SIZE", DefaultInputSize); err != nil {
		return nil, err
	}
	if cfg.ConfThreshold, err = getFloat("CONF_THRESHOLD", DefaultConfThreshold); err != nil {
		return nil, err
	}
	if cfg.IOUThreshold, err = getFloat("IOU_THRESHOLD", DefaultIOUThreshold); err != nil {
		return nil, err
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.TelegramChatID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse TELEGRAM_CHAT_ID: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные поля и диапазоны значений.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

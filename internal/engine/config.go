package engine

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"ghost-server/internal/domain"
)

// Config хранит параметры запуска хоста
type Config struct {
	// SaveDir - каталог, где лежит единственный файл записи
	SaveDir string
	// FixedStep - шаг симуляции в секундах. На каждом шаге пишется кадр.
	FixedStep float64
	// FrameRate - частота кадрового тика (проигрывание), Гц
	FrameRate int
	Port      string
}

// NewConfig создает конфиг из окружения с значениями по умолчанию
func NewConfig() Config {
	return Config{
		SaveDir:   envStr("GHOST_SAVE_DIR", "./data"),
		FixedStep: envFloat("GHOST_FIXED_STEP", domain.DefaultFixedStep),
		FrameRate: envInt("GHOST_FRAME_RATE", domain.DefaultFrameRate),
		Port:      envStr("GHOST_PORT", "8080"),
	}
}

func (c Config) Validate() error {
	if c.SaveDir == "" {
		return fmt.Errorf("save dir is empty")
	}
	if c.FixedStep <= 0 {
		return fmt.Errorf("fixed step must be positive, got %v", c.FixedStep)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %d", c.FrameRate)
	}
	// Меньше наносекунды тикер не умеет
	if c.FixedInterval() <= 0 {
		return fmt.Errorf("fixed step %v is below timer resolution", c.FixedStep)
	}
	if c.FrameInterval() <= 0 {
		return fmt.Errorf("frame rate %d is above timer resolution", c.FrameRate)
	}
	return nil
}

func (c Config) FixedInterval() time.Duration {
	return time.Duration(c.FixedStep * float64(time.Second))
}

func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config конфигурация приложения
type Config struct {
	// Сервер
	Port string `json:"port"`

	// Файлы
	KMLPath       string `json:"kml_path"`        // KML-документ, загружаемый сервером
	HistoryDBPath string `json:"history_db_path"` // База истории обновлений
	UploadDir     string `json:"upload_dir"`      // Каталог для загруженных таблиц

	// Обновление полигонов
	ImageHeight       int  `json:"image_height"`        // Высота img-тегов в описании
	MergeWithExisting bool `json:"merge_with_existing"` // Режим слияния по умолчанию

	// Ограничение частоты запросов к API
	RateLimitPerSecond float64 `json:"rate_limit_per_second"`
	RateLimitBurst     int     `json:"rate_limit_burst"`
}

// LoadConfig загружает конфигурацию из переменных окружения.
// Все значения имеют рабочие значения по умолчанию.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		KMLPath:            getEnv("KML_PATH", "MyArea.kml"),
		HistoryDBPath:      getEnv("HISTORY_DB_PATH", "history.db"),
		UploadDir:          getEnv("UPLOAD_DIR", "data/uploads"),
		ImageHeight:        getEnvInt("IMAGE_HEIGHT", 200),
		MergeWithExisting:  getEnvBool("MERGE_WITH_EXISTING", true),
		RateLimitPerSecond: getEnvFloat("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность значений конфигурации.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.ImageHeight <= 0 {
		return fmt.Errorf("image height must be positive, got %d", c.ImageHeight)
	}
	if c.RateLimitPerSecond <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v", c.RateLimitPerSecond)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

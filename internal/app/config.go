package app

import (
	"time"

	"github.com/wayfern/wayfern-backend/internal/logger"
	"github.com/wayfern/wayfern-backend/internal/utils"
)

type Config struct {
	Port              string
	GenerationMode    string
	GenerationTimeout time.Duration
	MetricsAddr       string
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	generationMode := utils.GetEnv("GENERATION_MODE", "background", log)
	generationTimeoutSeconds := utils.GetEnvAsInt("GENERATION_TIMEOUT_SECONDS", 300, log)
	metricsAddr := utils.GetEnv("METRICS_ADDR", "", log)
	return Config{
		Port:              port,
		GenerationMode:    generationMode,
		GenerationTimeout: time.Duration(generationTimeoutSeconds) * time.Second,
		MetricsAddr:       metricsAddr,
	}
}

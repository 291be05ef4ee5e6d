package config

import (
	"github.com/BaSui01/imagegate/image"
	"github.com/BaSui01/imagegate/internal/configstore"
	"github.com/BaSui01/imagegate/internal/database"
	"github.com/BaSui01/imagegate/internal/server"
	"github.com/BaSui01/imagegate/internal/telemetry"
)

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Server:      server.DefaultConfig(),
		Metrics:     DefaultMetricsConfig(),
		API:         DefaultAPIConfig(),
		Log:         DefaultLogConfig(),
		Telemetry:   telemetry.DefaultConfig(),
		Redis:       configstore.DefaultRedisConfig(),
		Database:    database.DefaultConfig(),
		Store:       configstore.DefaultConfig(),
		Credentials: DefaultCredentialsConfig(),
		Gateway:     image.DefaultConfig(),
	}
}

// DefaultMetricsConfig /metrics 独立端口
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled: true,
		Addr:    ":9091",
	}
}

// DefaultAPIConfig 默认限流与 CORS
func DefaultAPIConfig() APIConfig {
	return APIConfig{
		RateLimitRPS:   10,
		RateLimitBurst: 20,
		MaxBodyBytes:   64 << 10,
	}
}

// DefaultLogConfig 默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{"stdout"},
	}
}

// DefaultCredentialsConfig 默认读取工作目录下的 .env
func DefaultCredentialsConfig() CredentialsConfig {
	return CredentialsConfig{DotenvPath: ".env"}
}

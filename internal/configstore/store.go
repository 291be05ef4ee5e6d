package configstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Backend 存储后端类型
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendRedis    Backend = "redis"
	BackendDatabase Backend = "database"
)

// Store 键值配置存储
type Store interface {
	// Get 读取 key；found 为 false 表示不存在
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set 写入 key
	Set(ctx context.Context, key, value string) error
	// Ping 检查后端可用性
	Ping(ctx context.Context) error
	// Close 释放资源
	Close() error
}

// Config 配置存储设置
type Config struct {
	// 后端: memory | redis | database
	Backend Backend `yaml:"backend" json:"backend" env:"BACKEND"`

	// Redis 键前缀
	KeyPrefix string `yaml:"key_prefix" json:"key_prefix" env:"KEY_PREFIX"`

	// 启动时写入的静态条目（已存在的键不覆盖）
	Entries map[string]string `yaml:"entries" json:"entries"`
}

// DefaultConfig 返回默认存储配置
func DefaultConfig() Config {
	return Config{
		Backend:   BackendMemory,
		KeyPrefix: "imagegate:config:",
	}
}

// Validate 校验配置
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendRedis, BackendDatabase:
		return nil
	default:
		return fmt.Errorf("unsupported store backend %q (want memory|redis|database)", c.Backend)
	}
}

// Deps 各后端的外部连接
type Deps struct {
	Redis RedisConfig
	DB    *gorm.DB
}

// Open 按 cfg.Backend 创建存储并写入静态条目
func Open(ctx context.Context, cfg Config, deps Deps, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		store Store
		err   error
	)
	switch cfg.Backend {
	case BackendMemory:
		store = NewMemoryStore(nil)
	case BackendRedis:
		store, err = NewRedisStore(ctx, deps.Redis, cfg.KeyPrefix, logger)
	case BackendDatabase:
		if deps.DB == nil {
			return nil, fmt.Errorf("database store requires a database connection")
		}
		store, err = NewDBStore(deps.DB, logger)
	}
	if err != nil {
		return nil, err
	}

	if err := Seed(ctx, store, cfg.Entries, logger); err != nil {
		_ = store.Close()
		return nil, err
	}

	logger.Info("config store opened", zap.String("backend", string(cfg.Backend)), zap.Int("seeded", len(cfg.Entries)))
	return store, nil
}

// Seed 写入 entries 中尚不存在的键，按键名排序以保证确定性
func Seed(ctx context.Context, store Store, entries map[string]string, logger *zap.Logger) error {
	if len(entries) == 0 {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		_, found, err := store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("seed %s: %w", key, err)
		}
		if found {
			logger.Debug("seed skipped, key already present", zap.String("key", key))
			continue
		}
		if err := store.Set(ctx, key, entries[k]); err != nil {
			return fmt.Errorf("seed %s: %w", key, err)
		}
	}
	return nil
}

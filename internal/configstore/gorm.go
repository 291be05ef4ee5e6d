package configstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppConfig 是 app_config 表的一行
type AppConfig struct {
	ID          uint      `gorm:"primaryKey"`
	ConfigKey   string    `gorm:"column:config_key;size:255;uniqueIndex;not null"`
	ConfigValue string    `gorm:"column:config_value;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

// TableName 固定表名
func (AppConfig) TableName() string { return "app_config" }

// DBStore 基于 gorm 的配置存储
type DBStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewDBStore 创建数据库存储。表结构由 migrate 命令维护。
func NewDBStore(db *gorm.DB, logger *zap.Logger) (*DBStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBStore{
		db:     db,
		logger: logger.With(zap.String("component", "config_store"), zap.String("backend", "database")),
	}, nil
}

// Get 读取 config_key 对应的 config_value
func (s *DBStore) Get(ctx context.Context, key string) (string, bool, error) {
	var row AppConfig
	err := s.db.WithContext(ctx).Where("config_key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Error("config get failed", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("config get failed: %w", err)
	}
	return row.ConfigValue, true, nil
}

// Set 按 config_key upsert
func (s *DBStore) Set(ctx context.Context, key, value string) error {
	row := AppConfig{ConfigKey: key, ConfigValue: value, CreatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "config_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"config_value"}),
	}).Create(&row).Error
	if err != nil {
		s.logger.Error("config set failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("config set failed: %w", err)
	}
	return nil
}

// Ping 检查数据库连接
func (s *DBStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close 不关闭共享连接，连接由 database.PoolManager 负责
func (s *DBStore) Close() error { return nil }

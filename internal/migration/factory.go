package migration

import (
	"errors"
	"strings"

	"github.com/BaSui01/imagegate/internal/database"
	"go.uber.org/zap"
)

// NewMigratorFromDatabaseConfig 用数据库配置创建迁移器
func NewMigratorFromDatabaseConfig(cfg database.Config, logger *zap.Logger) (*DefaultMigrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dbType, err := ParseDatabaseType(cfg.Driver)
	if err != nil {
		return nil, err
	}
	m, err := NewMigrator(Config{
		DatabaseType: dbType,
		DSN:          cfg.MigrationDSN(),
	}, logger)
	if err != nil {
		return nil, redact(err, cfg.Password)
	}
	return m, nil
}

// redact 防止驱动错误把密码带出去
func redact(err error, password string) error {
	if password == "" || !strings.Contains(err.Error(), password) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), password, "***"))
}

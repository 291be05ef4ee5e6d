package database

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// 支持的驱动
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config 数据库配置
type Config struct {
	Driver   string `yaml:"driver" json:"driver" env:"DRIVER"`
	Host     string `yaml:"host" json:"host" env:"HOST"`
	Port     int    `yaml:"port" json:"port" env:"PORT"`
	User     string `yaml:"user" json:"user" env:"USER"`
	Password string `yaml:"password" json:"-" env:"PASSWORD"`
	Name     string `yaml:"name" json:"name" env:"NAME"`
	SSLMode  string `yaml:"ssl_mode" json:"ssl_mode" env:"SSL_MODE"`

	// sqlite 文件路径，或 ":memory:"
	Path string `yaml:"path" json:"path" env:"PATH"`

	Pool PoolConfig `yaml:"pool" json:"pool" env:"POOL"`
}

// DefaultConfig 返回默认数据库配置
func DefaultConfig() Config {
	return Config{
		Driver:  DriverPostgres,
		Host:    "localhost",
		Port:    5432,
		User:    "imagegate",
		Name:    "imagegate",
		SSLMode: "disable",
		Path:    "imagegate.db",
		Pool:    DefaultPoolConfig(),
	}
}

// Validate 校验数据库配置
func (c Config) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverMySQL:
		if c.Host == "" || c.Name == "" {
			return fmt.Errorf("database host and name are required for %s", c.Driver)
		}
	case DriverSQLite:
		if c.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Driver)
	}
	return c.Pool.Validate()
}

// DSN 生成驱动连接串
func (c Config) DSN() string {
	switch c.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.User, c.Password, c.Host, c.Port, c.Name)
	case DriverSQLite:
		return c.Path
	default:
		return ""
	}
}

// MigrationDSN 生成迁移使用的连接串，mysql 需要 multiStatements
func (c Config) MigrationDSN() string {
	if c.Driver == DriverMySQL {
		return c.DSN() + "&multiStatements=true"
	}
	return c.DSN()
}

// Dialector 返回 gorm dialector
func (c Config) Dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverPostgres:
		return postgres.Open(c.DSN()), nil
	case DriverMySQL:
		return mysql.Open(c.DSN()), nil
	case DriverSQLite:
		return sqlite.Open(c.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// Open 连接数据库并返回连接池管理器
func Open(cfg Config, logger *zap.Logger, opts ...PoolOption) (*PoolManager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dialector, err := cfg.Dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, redactDSN(err, cfg.Password))
	}

	return NewPoolManager(db, cfg.Pool, logger, opts...)
}

// redactDSN 防止驱动把密码带进错误信息
func redactDSN(err error, password string) error {
	if password == "" || !strings.Contains(err.Error(), password) {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), password, "***"))
}

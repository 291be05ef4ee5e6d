// Package secrets 提供凭证的第二级来源：进程环境变量，其次是 .env 文件。
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// EnvSource 按键查找密钥：先查进程环境，再查 .env 文件内容。
// .env 文件只在构造时读取一次，且不会写入进程环境。
type EnvSource struct {
	file   map[string]string
	lookup func(string) (string, bool)
}

// NewEnvSource 创建密钥源。path 为空或文件不存在时只使用进程环境。
func NewEnvSource(path string, logger *zap.Logger) (*EnvSource, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &EnvSource{file: map[string]string{}, lookup: os.LookupEnv}

	path = strings.TrimSpace(path)
	if path == "" {
		return s, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("dotenv file not found, using process environment only", zap.String("path", path))
			return s, nil
		}
		return nil, fmt.Errorf("read dotenv file %s: %w", path, err)
	}
	s.file = values

	// 只记录数量，不记录键值
	logger.Info("dotenv file loaded", zap.String("path", path), zap.Int("entries", len(values)))
	return s, nil
}

// Lookup 实现 image.SecretSource
func (s *EnvSource) Lookup(key string) (string, bool) {
	if v, ok := s.lookup(key); ok && strings.TrimSpace(v) != "" {
		return v, true
	}
	v, ok := s.file[key]
	return v, ok
}

// MockConfigStore / MockSecretSource 的测试模拟实现。
//
// 支持固定条目、错误注入与调用记录。
package mocks

import (
	"context"
	"sync"
)

// --- MockConfigStore ---

// MockConfigStore 是键值配置存储的模拟实现
type MockConfigStore struct {
	mu      sync.RWMutex
	entries map[string]string
	err     error
	calls   []string
}

// NewMockConfigStore 创建新的 MockConfigStore
func NewMockConfigStore() *MockConfigStore {
	return &MockConfigStore{entries: make(map[string]string)}
}

// WithEntry 设置一个条目
func (m *MockConfigStore) WithEntry(key, value string) *MockConfigStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return m
}

// WithError 让所有读取返回 err
func (m *MockConfigStore) WithError(err error) *MockConfigStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Get 实现 image.ConfigStore
func (m *MockConfigStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, key)
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

// Ping 实现健康检查
func (m *MockConfigStore) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

// Calls 返回按顺序读取过的键
func (m *MockConfigStore) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// --- MockSecretSource ---

// MockSecretSource 是环境密钥源的模拟实现
type MockSecretSource struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMockSecretSource 创建新的 MockSecretSource
func NewMockSecretSource() *MockSecretSource {
	return &MockSecretSource{entries: make(map[string]string)}
}

// WithSecret 设置一个密钥
func (m *MockSecretSource) WithSecret(key, value string) *MockSecretSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return m
}

// Lookup 实现 image.SecretSource
func (m *MockSecretSource) Lookup(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok
}

// =============================================================================
// 🧪 测试辅助函数
// =============================================================================
// 网关测试常用的断言：请求体 JSON、凭证不外泄、data URI 结果
//
// 使用方法:
//
//	testutil.AssertJSONBody(t, fake.Requests()[0].Body, map[string]string{"inputs": "x"})
//	testutil.AssertNoSecret(t, w.Body.String(), "sk-live-123")
//	testutil.AssertDataURI(t, res.DataURI(), "image/png", fixtures.PNG())
//
// =============================================================================
package testutil

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestContext 返回 30 秒超时的测试上下文
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// AssertJSONBody 断言上游收到的请求体与 want 的 JSON 表示等价（忽略字段顺序）
func AssertJSONBody(t *testing.T, body []byte, want any) {
	t.Helper()
	expected, err := json.Marshal(want)
	require.NoError(t, err)
	assert.JSONEq(t, string(expected), string(body))
}

// AssertNoSecret 断言 s 不包含任何一个凭证值
func AssertNoSecret(t *testing.T, s string, secrets ...string) {
	t.Helper()
	for _, secret := range secrets {
		if secret != "" && strings.Contains(s, secret) {
			t.Errorf("secret %q leaked into %q", mask(secret), s)
		}
	}
}

// AssertDataURI 断言 uri 为 data:<mime>;base64,<data>
func AssertDataURI(t *testing.T, uri, mime string, data []byte) {
	t.Helper()
	prefix := "data:" + mime + ";base64,"
	require.True(t, strings.HasPrefix(uri, prefix), "unexpected data URI prefix: %.40s", uri)
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

// MustParseJSON 解析 JSON 字符串，失败时 panic
func MustParseJSON[T any](s string) T {
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		panic(err)
	}
	return v
}

func mask(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:2] + "****" + secret[len(secret)-2:]
}

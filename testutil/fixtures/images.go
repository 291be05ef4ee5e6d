// =============================================================================
// 📦 测试数据工厂 - 图像与 Prompt
// =============================================================================
package fixtures

import "encoding/base64"

// pngHeader 是一个 1x1 PNG 的前缀，足够让断言区分不同服务商的负载。
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

// PNG 返回一段 PNG 样例字节（每次返回新切片）
func PNG() []byte {
	out := make([]byte, len(pngHeader))
	copy(out, pngHeader)
	return out
}

// JPEG 返回一段 JPEG 样例字节
func JPEG() []byte {
	return []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0x10, 'J', 'F', 'I', 'F', 0}
}

// WEBP 返回一段 WEBP 样例字节
func WEBP() []byte {
	return []byte{'R', 'I', 'F', 'F', 0x24, 0, 0, 0, 'W', 'E', 'B', 'P', 'V', 'P', '8', ' '}
}

// Base64 返回 data 的标准 base64 编码
func Base64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// 示例 Prompt
const (
	PromptNurse     = "a nurse"
	PromptLandscape = "a misty mountain landscape at dawn"
)

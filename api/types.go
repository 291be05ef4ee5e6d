package api

// GenerateRequest POST /api/generate 的请求体
type GenerateRequest struct {
	// 图片描述，不能为空
	Prompt string `json:"prompt" example:"a watercolor lighthouse at dusk"`
	// openai | replicate | google | huggingface | hf
	Provider string `json:"provider" example:"replicate"`
	// 可选，只有 replicate 与 huggingface 使用
	Model string `json:"model,omitempty" example:"black-forest-labs/flux-dev"`
}

// GenerateResponse 成功时 data 字段的内容
type GenerateResponse struct {
	// data:<mime>;base64,<payload>
	ImageURL string `json:"imageUrl"`
	MimeType string `json:"mimeType"`
	Provider string `json:"provider"`
}

// VersionInfo GET /version 的 data 字段
type VersionInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
}

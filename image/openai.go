package image

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// OpenAIAdapter使用OpenAI DALL-E同步生成图像.
// 响应中的 URL 会被立即下载，调用方永远拿不到服务商链接。
type OpenAIAdapter struct {
	cfg    OpenAIConfig
	client *http.Client
	logger *zap.Logger
}

// NewOpenAIAdapter创建OpenAI适配器.
func NewOpenAIAdapter(cfg OpenAIConfig, logger *zap.Logger) *OpenAIAdapter {
	defaults := DefaultOpenAIConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.Size == "" {
		cfg.Size = defaults.Size
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIAdapter{
		cfg:    cfg,
		client: newHTTPClient(cfg.Timeout),
		logger: logger.With(zap.String("adapter", string(ProviderOpenAI))),
	}
}

func (a *OpenAIAdapter) Provider() ProviderID { return ProviderOpenAI }

func (a *OpenAIAdapter) MimeType() string { return MimePNG }

type dalleRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type dalleResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL     string `json:"url,omitempty"`
		B64JSON string `json:"b64_json,omitempty"`
	} `json:"data"`
	Error json.RawMessage `json:"error,omitempty"`
}

// Invoke issues one generation call with a fixed size and n=1.
// Endpoint: POST /v1/images/generations
func (a *OpenAIAdapter) Invoke(ctx context.Context, req GenerationRequest, cred ProviderCredential) (Payload, error) {
	secret := cred.Secret()
	body := dalleRequest{
		Model:  a.cfg.Model,
		Prompt: req.Prompt(),
		N:      1,
		Size:   a.cfg.Size,
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+secret)

	res, err := do(ctx, a.client, http.MethodPost, joinURL(a.cfg.BaseURL, "/v1/images/generations"), body, header, maxImageBytes)
	if err != nil {
		return nil, transportError(ProviderOpenAI, secret, "dalle request", err)
	}
	if !res.ok() {
		detail := apiErrorMessage(res.body)
		if detail == "" {
			detail = res.detail()
		}
		return nil, providerError(ProviderOpenAI, secret, "dalle error: status=%d detail=%s", res.status, detail)
	}

	var dResp dalleResponse
	if err := json.Unmarshal(res.body, &dResp); err != nil {
		return nil, providerError(ProviderOpenAI, secret, "failed to decode dalle response: %v", err)
	}
	if msg := rawErrorText(dResp.Error); msg != "" {
		return nil, providerError(ProviderOpenAI, secret, "dalle error: %s", msg)
	}
	if len(dResp.Data) == 0 {
		return nil, providerError(ProviderOpenAI, secret, "dalle response contained no image")
	}

	first := dResp.Data[0]
	switch {
	case first.B64JSON != "":
		return Base64Data(first.B64JSON), nil
	case first.URL != "":
		a.logger.Debug("fetching dalle result reference")
		return fetchReference(ctx, a.client, ProviderOpenAI, secret, first.URL)
	default:
		return nil, providerError(ProviderOpenAI, secret, "dalle response image has neither url nor b64_json")
	}
}

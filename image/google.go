package image

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// GoogleAdapter implements image generation using Google Imagen through the
// Gemini API predict endpoint. Results arrive inline as base64.
type GoogleAdapter struct {
	cfg    GoogleConfig
	client *http.Client
	logger *zap.Logger
}

// NewGoogleAdapter creates a new Imagen adapter.
func NewGoogleAdapter(cfg GoogleConfig, logger *zap.Logger) *GoogleAdapter {
	defaults := DefaultGoogleConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleAdapter{
		cfg:    cfg,
		client: newHTTPClient(cfg.Timeout),
		logger: logger.With(zap.String("adapter", string(ProviderGoogle))),
	}
}

func (a *GoogleAdapter) Provider() ProviderID { return ProviderGoogle }

func (a *GoogleAdapter) MimeType() string { return MimePNG }

type imagenRequest struct {
	Instances  []imagenInstance `json:"instances"`
	Parameters imagenParameters `json:"parameters"`
}

type imagenInstance struct {
	Prompt string `json:"prompt"`
}

type imagenParameters struct {
	SampleCount int `json:"sampleCount"`
}

type imagenResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
	Error json.RawMessage `json:"error,omitempty"`
}

// Invoke generates one image.
// Endpoint: POST /v1beta/models/{model}:predict
// Auth: x-goog-api-key header, so the key never appears in a URL.
func (a *GoogleAdapter) Invoke(ctx context.Context, req GenerationRequest, cred ProviderCredential) (Payload, error) {
	secret := cred.Secret()
	body := imagenRequest{
		Instances:  []imagenInstance{{Prompt: req.Prompt()}},
		Parameters: imagenParameters{SampleCount: 1},
	}

	header := http.Header{}
	header.Set("x-goog-api-key", secret)

	endpoint := joinURL(a.cfg.BaseURL, fmt.Sprintf("/v1beta/models/%s:predict", url.PathEscape(a.cfg.Model)))
	res, err := do(ctx, a.client, http.MethodPost, endpoint, body, header, maxImageBytes)
	if err != nil {
		return nil, transportError(ProviderGoogle, secret, "imagen request", err)
	}
	if !res.ok() {
		detail := apiErrorMessage(res.body)
		if detail == "" {
			detail = res.detail()
		}
		return nil, providerError(ProviderGoogle, secret, "imagen error: status=%d detail=%s", res.status, detail)
	}

	var iResp imagenResponse
	if err := json.Unmarshal(res.body, &iResp); err != nil {
		return nil, providerError(ProviderGoogle, secret, "failed to decode imagen response: %v", err)
	}
	if msg := rawErrorText(iResp.Error); msg != "" {
		return nil, providerError(ProviderGoogle, secret, "imagen error: %s", msg)
	}
	if len(iResp.Predictions) == 0 || iResp.Predictions[0].BytesBase64Encoded == "" {
		// Imagen drops predictions that trip its safety filters.
		return nil, providerError(ProviderGoogle, secret, "imagen response contained no image")
	}

	return Base64Data(iResp.Predictions[0].BytesBase64Encoded), nil
}

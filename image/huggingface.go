package image

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// HuggingFaceAdapter calls the Hugging Face inference API, which answers with
// the raw image bytes and no status wrapper.
type HuggingFaceAdapter struct {
	cfg    HuggingFaceConfig
	client *http.Client
	logger *zap.Logger
}

// NewHuggingFaceAdapter creates a new inference adapter.
func NewHuggingFaceAdapter(cfg HuggingFaceConfig, logger *zap.Logger) *HuggingFaceAdapter {
	defaults := DefaultHuggingFaceConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HuggingFaceAdapter{
		cfg:    cfg,
		client: newHTTPClient(cfg.Timeout),
		logger: logger.With(zap.String("adapter", string(ProviderHuggingFace))),
	}
}

func (a *HuggingFaceAdapter) Provider() ProviderID { return ProviderHuggingFace }

func (a *HuggingFaceAdapter) MimeType() string { return MimeJPEG }

// model picks the repo id: a hint shaped like "owner/name" wins. The result is
// path-escaped; anything else falls back to the configured model.
func (a *HuggingFaceAdapter) model(req GenerationRequest) string {
	if repo, ok := modelPath(req.ModelHint()); ok {
		return repo
	}
	if repo, ok := modelPath(a.cfg.Model); ok {
		return repo
	}
	return a.cfg.Model
}

type hfRequest struct {
	Inputs string `json:"inputs"`
}

// Invoke runs one inference call.
// Endpoint: POST /models/{owner}/{name}
func (a *HuggingFaceAdapter) Invoke(ctx context.Context, req GenerationRequest, cred ProviderCredential) (Payload, error) {
	secret := cred.Secret()
	model := a.model(req)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+secret)

	res, err := do(ctx, a.client, http.MethodPost, joinURL(a.cfg.BaseURL, "/models/"+model), hfRequest{Inputs: req.Prompt()}, header, maxImageBytes)
	if err != nil {
		return nil, transportError(ProviderHuggingFace, secret, "inference request", err)
	}
	if !res.ok() {
		return nil, providerError(ProviderHuggingFace, secret, "inference error: status=%d detail=%s", res.status, res.detail())
	}
	if len(res.body) == 0 {
		return nil, providerError(ProviderHuggingFace, secret, "inference returned an empty body")
	}
	// A JSON body on success is an error report, not an image.
	if strings.HasPrefix(res.contentType, "application/json") {
		detail := apiErrorMessage(res.body)
		if detail == "" {
			detail = res.detail()
		}
		return nil, providerError(ProviderHuggingFace, secret, "inference returned no image: %s", detail)
	}

	a.logger.Debug("inference completed", zap.String("model", model), zap.Int("bytes", len(res.body)))
	return RawBytes(res.body), nil
}

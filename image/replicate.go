package image

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/BaSui01/imagegate/types"
	"go.uber.org/zap"
)

// PollRecorder observes how many polls an asynchronous job needed.
type PollRecorder interface {
	RecordPollAttempts(provider string, attempts int)
}

// ReplicateAdapter submits a prediction to Replicate and polls it to a terminal
// state through the PollingExecutor.
type ReplicateAdapter struct {
	cfg      ReplicateConfig
	client   *http.Client
	executor *PollingExecutor
	recorder PollRecorder
	logger   *zap.Logger
}

// NewReplicateAdapter creates a new Replicate adapter. A nil executor gets a
// default one; recorder may be nil.
func NewReplicateAdapter(cfg ReplicateConfig, executor *PollingExecutor, recorder PollRecorder, logger *zap.Logger) *ReplicateAdapter {
	defaults := DefaultReplicateConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.MaxPollAttempts <= 0 {
		cfg.MaxPollAttempts = defaults.MaxPollAttempts
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaults.PollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if executor == nil {
		executor = NewPollingExecutor(logger)
	}
	return &ReplicateAdapter{
		cfg:      cfg,
		client:   newHTTPClient(cfg.Timeout),
		executor: executor,
		recorder: recorder,
		logger:   logger.With(zap.String("adapter", string(ProviderReplicate))),
	}
}

func (a *ReplicateAdapter) Provider() ProviderID { return ProviderReplicate }

func (a *ReplicateAdapter) MimeType() string { return MimeWEBP }

type replicateInput struct {
	Prompt string `json:"prompt"`
}

type replicateSubmit struct {
	Version string         `json:"version,omitempty"`
	Input   replicateInput `json:"input"`
}

type replicatePrediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output,omitempty"`
	Error  json.RawMessage `json:"error,omitempty"`
	URLs   struct {
		Get    string `json:"get"`
		Cancel string `json:"cancel,omitempty"`
	} `json:"urls"`
}

// submitTarget picks the endpoint for model.
//
//	owner/name:version -> POST /v1/predictions {version}
//	owner/name         -> POST /v1/models/owner/name/predictions
//	version            -> POST /v1/predictions {version}
func (a *ReplicateAdapter) submitTarget(model string) (string, replicateSubmit, error) {
	if i := strings.LastIndex(model, ":"); i >= 0 {
		version := model[i+1:]
		if version == "" {
			return "", replicateSubmit{}, fmt.Errorf("model %s has an empty version", quoteForMessage(model))
		}
		return joinURL(a.cfg.BaseURL, "/v1/predictions"), replicateSubmit{Version: version}, nil
	}
	if strings.Contains(model, "/") {
		repo, ok := modelPath(model)
		if !ok {
			return "", replicateSubmit{}, fmt.Errorf("model %s is not of the form owner/name", quoteForMessage(model))
		}
		return joinURL(a.cfg.BaseURL, "/v1/models/"+repo+"/predictions"), replicateSubmit{}, nil
	}
	return joinURL(a.cfg.BaseURL, "/v1/predictions"), replicateSubmit{Version: model}, nil
}

// Invoke submits the prediction and awaits it.
func (a *ReplicateAdapter) Invoke(ctx context.Context, req GenerationRequest, cred ProviderCredential) (Payload, error) {
	secret := cred.Secret()
	model := a.cfg.Model
	if req.HasModelHint() {
		model = req.ModelHint()
	}

	endpoint, body, err := a.submitTarget(model)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidRequest, err.Error()).WithProvider(string(ProviderReplicate))
	}
	body.Input = replicateInput{Prompt: req.Prompt()}

	res, err := do(ctx, a.client, http.MethodPost, endpoint, body, a.authHeader(secret), maxImageBytes)
	if err != nil {
		return nil, transportError(ProviderReplicate, secret, "submit prediction", err)
	}
	if !res.ok() {
		detail := replicateDetail(res.body)
		if detail == "" {
			detail = res.detail()
		}
		return nil, providerError(ProviderReplicate, secret, "submit prediction: status=%d detail=%s", res.status, detail)
	}

	var pred replicatePrediction
	if err := json.Unmarshal(res.body, &pred); err != nil {
		return nil, providerError(ProviderReplicate, secret, "failed to decode prediction: %v", err)
	}
	// 没有轮询地址的句柄不可轮询，直接失败。
	if pred.URLs.Get == "" {
		return nil, providerError(ProviderReplicate, secret, "prediction response is missing urls.get")
	}

	handle := pred.handle()
	a.logger.Debug("prediction submitted",
		zap.String("job_id", handle.ExternalID),
		zap.String("status", string(handle.Status)),
	)

	handle, attempts := a.executor.AwaitCompletion(ctx, handle, a.poll(secret), a.cfg.MaxPollAttempts, a.cfg.PollInterval)
	if a.recorder != nil {
		a.recorder.RecordPollAttempts(string(ProviderReplicate), attempts)
	}

	switch handle.Status {
	case JobSucceeded:
		return a.resolveOutput(ctx, secret, handle)
	case JobFailed:
		detail := handle.Detail
		if detail == "" {
			detail = "no detail provided"
		}
		return nil, providerError(ProviderReplicate, secret, "prediction %s failed: %s", handle.ExternalID, detail)
	default:
		budget := time.Duration(a.cfg.MaxPollAttempts) * a.cfg.PollInterval
		return nil, types.NewError(types.ErrTimeout,
			fmt.Sprintf("prediction %s did not finish within %d polls (%s)", handle.ExternalID, attempts, budget)).
			WithProvider(string(ProviderReplicate))
	}
}

func (a *ReplicateAdapter) authHeader(secret string) http.Header {
	header := http.Header{}
	header.Set("Authorization", "Token "+secret)
	return header
}

// poll refreshes the handle with one GET of its polling endpoint. Errors are
// tolerated by the executor.
func (a *ReplicateAdapter) poll(secret string) PollFunc {
	return func(ctx context.Context, h JobHandle) (JobHandle, error) {
		res, err := do(ctx, a.client, http.MethodGet, h.PollingEndpoint, nil, a.authHeader(secret), maxImageBytes)
		if err != nil {
			return h, transportError(ProviderReplicate, secret, "poll prediction", err)
		}
		if !res.ok() {
			return h, providerError(ProviderReplicate, secret, "poll prediction: status=%d", res.status)
		}
		var pred replicatePrediction
		if err := json.Unmarshal(res.body, &pred); err != nil {
			return h, providerError(ProviderReplicate, secret, "failed to decode prediction: %v", err)
		}
		next := pred.handle()
		if next.ExternalID == "" {
			next.ExternalID = h.ExternalID
		}
		if next.PollingEndpoint == "" {
			next.PollingEndpoint = h.PollingEndpoint
		}
		return next, nil
	}
}

func (a *ReplicateAdapter) resolveOutput(ctx context.Context, secret string, h JobHandle) (Payload, error) {
	out := h.Output
	switch {
	case out == "":
		return nil, providerError(ProviderReplicate, secret, "prediction %s succeeded without output", h.ExternalID)
	case strings.HasPrefix(out, "data:"):
		res, err := ParseDataURI(out)
		if err != nil {
			return nil, providerError(ProviderReplicate, secret, "prediction output is not a valid data URI")
		}
		return Base64Data(res.EncodedBytes), nil
	default:
		return fetchReference(ctx, a.client, ProviderReplicate, secret, out)
	}
}

func (p replicatePrediction) handle() JobHandle {
	return JobHandle{
		ExternalID:      p.ID,
		PollingEndpoint: p.URLs.Get,
		Status:          replicateStatus(p.Status),
		Output:          firstOutput(p.Output),
		Detail:          rawErrorText(p.Error),
	}
}

// replicateStatus maps the provider vocabulary onto JobStatus. Unknown values
// keep the job in flight.
func replicateStatus(s string) JobStatus {
	switch strings.ToLower(s) {
	case "starting":
		return JobPending
	case "processing":
		return JobRunning
	case "succeeded":
		return JobSucceeded
	case "failed", "canceled":
		return JobFailed
	default:
		return JobRunning
	}
}

// firstOutput returns the first element of an array output or the sole scalar.
func firstOutput(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return ""
		}
		return list[0]
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

// replicateDetail reads {"detail": "..."} which Replicate uses for API errors.
func replicateDetail(body []byte) string {
	var envelope struct {
		Detail string `json:"detail"`
		Title  string `json:"title"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Detail != "" {
		return envelope.Detail
	}
	return envelope.Title
}

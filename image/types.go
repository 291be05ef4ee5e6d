package image

import (
	"encoding/json"
	"strings"

	"github.com/BaSui01/imagegate/types"
)

// ProviderID identifies one of the closed set of generation providers.
type ProviderID string

const (
	ProviderOpenAI      ProviderID = "openai"
	ProviderReplicate   ProviderID = "replicate"
	ProviderGoogle      ProviderID = "google"
	ProviderHuggingFace ProviderID = "huggingface"
)

// Providers lists every supported provider in a stable order.
var Providers = []ProviderID{ProviderOpenAI, ProviderReplicate, ProviderGoogle, ProviderHuggingFace}

// ParseProviderID maps a wire name onto a ProviderID. Matching is exact after
// trimming and lower-casing; "hf" is accepted for Hugging Face.
func ParseProviderID(s string) (ProviderID, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "openai":
		return ProviderOpenAI, true
	case "replicate":
		return ProviderReplicate, true
	case "google":
		return ProviderGoogle, true
	case "huggingface", "hf":
		return ProviderHuggingFace, true
	default:
		return "", false
	}
}

func (p ProviderID) String() string { return string(p) }

// GenerationRequest is an immutable, validated generation request.
type GenerationRequest struct {
	prompt    string
	provider  ProviderID
	modelHint string
}

// NewGenerationRequest validates the raw request fields. An empty or blank prompt
// yields INVALID_REQUEST; an unrecognised provider yields UNKNOWN_PROVIDER.
func NewGenerationRequest(prompt, provider, modelHint string) (GenerationRequest, error) {
	if strings.TrimSpace(prompt) == "" {
		return GenerationRequest{}, types.NewError(types.ErrInvalidRequest, "prompt is required")
	}
	id, ok := ParseProviderID(provider)
	if !ok {
		return GenerationRequest{}, types.NewError(types.ErrUnknownProvider, "unknown provider: "+quoteForMessage(provider))
	}
	return GenerationRequest{
		prompt:    prompt,
		provider:  id,
		modelHint: strings.TrimSpace(modelHint),
	}, nil
}

func (r GenerationRequest) Prompt() string       { return r.prompt }
func (r GenerationRequest) Provider() ProviderID { return r.provider }
func (r GenerationRequest) ModelHint() string    { return r.modelHint }
func (r GenerationRequest) HasModelHint() bool   { return r.modelHint != "" }

// ProviderCredential carries a resolved secret for one request. It is never
// persisted and String/MarshalJSON mask the secret.
type ProviderCredential struct {
	Provider ProviderID
	secret   string
}

// NewProviderCredential wraps secret for provider.
func NewProviderCredential(provider ProviderID, secret string) ProviderCredential {
	return ProviderCredential{Provider: provider, secret: secret}
}

// Secret returns the raw secret value. Only adapters should call it.
func (c ProviderCredential) Secret() string { return c.secret }

func (c ProviderCredential) String() string {
	if c.secret == "" {
		return "ProviderCredential{" + string(c.Provider) + "}"
	}
	return "ProviderCredential{" + string(c.Provider) + ", secret:***}"
}

// GoString keeps %#v from printing the secret.
func (c ProviderCredential) GoString() string { return c.String() }

func (c ProviderCredential) MarshalJSON() ([]byte, error) {
	type masked struct {
		Provider ProviderID `json:"provider"`
		Secret   string     `json:"secret,omitempty"`
	}
	out := masked{Provider: c.Provider}
	if c.secret != "" {
		out.Secret = "***"
	}
	return json.Marshal(out)
}

// GenerateInput is the raw boundary input accepted by Gateway.Generate.
type GenerateInput struct {
	Prompt    string `json:"prompt"`
	Provider  string `json:"provider"`
	ModelHint string `json:"model,omitempty"`
}

func quoteForMessage(s string) string {
	return "\"" + truncate(s, 64) + "\""
}

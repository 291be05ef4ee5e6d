package image

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// EnablementKey is the config store key holding the global generation switch.
const EnablementKey = "GENERATION_ENABLED"

// ConfigStore is the read side of the external key/value config store.
// found is false when the key is absent.
type ConfigStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
}

// SecretSource is the process-wide fallback consulted when the config store has
// no usable credential. It is keyed identically to the store.
type SecretSource interface {
	Lookup(key string) (string, bool)
}

// CredentialKey returns the fixed credential key name for provider.
func CredentialKey(provider ProviderID) (string, bool) {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY", true
	case ProviderReplicate:
		return "REPLICATE_API_TOKEN", true
	case ProviderGoogle:
		return "GOOGLE_API_KEY", true
	case ProviderHuggingFace:
		return "HF_TOKEN", true
	default:
		return "", false
	}
}

// CredentialResolver reads the enablement flag and provider credentials on
// every call. It holds no cache, so administrative changes apply to the very
// next request.
type CredentialResolver struct {
	store    ConfigStore
	fallback SecretSource
	logger   *zap.Logger
}

// NewCredentialResolver creates a resolver. fallback may be nil.
func NewCredentialResolver(store ConfigStore, fallback SecretSource, logger *zap.Logger) *CredentialResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialResolver{
		store:    store,
		fallback: fallback,
		logger:   logger.With(zap.String("component", "credential_resolver")),
	}
}

// IsEnabled reports whether generation is enabled. Only an explicit "false"
// disables; an absent key or a store error counts as enabled.
func (r *CredentialResolver) IsEnabled(ctx context.Context) bool {
	if r.store == nil {
		return true
	}
	value, found, err := r.store.Get(ctx, EnablementKey)
	if err != nil {
		r.logger.Warn("enablement flag read failed, defaulting to enabled", zap.Error(err))
		return true
	}
	if !found {
		return true
	}
	return !strings.EqualFold(strings.TrimSpace(value), "false")
}

// Resolve returns the credential for provider. The config store wins over the
// secondary source; found is false when neither yields a non-blank value.
func (r *CredentialResolver) Resolve(ctx context.Context, provider ProviderID) (ProviderCredential, bool) {
	key, ok := CredentialKey(provider)
	if !ok {
		return ProviderCredential{}, false
	}

	if r.store != nil {
		value, found, err := r.store.Get(ctx, key)
		switch {
		case err != nil:
			r.logger.Warn("config store credential read failed, trying fallback",
				zap.String("provider", string(provider)),
				zap.String("key", key),
				zap.Error(err),
			)
		case found && strings.TrimSpace(value) != "":
			return NewProviderCredential(provider, strings.TrimSpace(value)), true
		}
	}

	if r.fallback != nil {
		if value, found := r.fallback.Lookup(key); found && strings.TrimSpace(value) != "" {
			r.logger.Debug("credential resolved from fallback source",
				zap.String("provider", string(provider)),
				zap.String("key", key),
			)
			return NewProviderCredential(provider, strings.TrimSpace(value)), true
		}
	}

	return ProviderCredential{}, false
}

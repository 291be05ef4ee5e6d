package image

import (
	"context"
	"time"

	"github.com/BaSui01/imagegate/internal/ctxkeys"
	"github.com/BaSui01/imagegate/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/BaSui01/imagegate/image"

// Recorder receives one observation per Generate call and per polled job.
type Recorder interface {
	PollRecorder
	RecordGeneration(provider, code string, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordGeneration(string, string, time.Duration) {}
func (nopRecorder) RecordPollAttempts(string, int)                 {}

// Option configures a Gateway.
type Option func(*Gateway)

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(g *Gateway) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithAdapter replaces the adapter slot for a.Provider().
func WithAdapter(a Adapter) Option {
	return func(g *Gateway) {
		if a == nil {
			return
		}
		switch a.Provider() {
		case ProviderOpenAI:
			g.openai = a
		case ProviderReplicate:
			g.replicate = a
		case ProviderGoogle:
			g.google = a
		case ProviderHuggingFace:
			g.huggingface = a
		}
	}
}

// WithPollingExecutor sets the executor handed to the Replicate adapter.
func WithPollingExecutor(e *PollingExecutor) Option {
	return func(g *Gateway) {
		if e != nil {
			g.executor = e
		}
	}
}

// Gateway is the single entry point for image generation. It holds no per-request
// state and is safe for concurrent use.
//
// Generate runs:
//
//	enabled? -> validate -> resolve credential -> adapter.Invoke -> Normalize
//
// Failures keep their kind; nothing is retried here.
type Gateway struct {
	resolver *CredentialResolver
	executor *PollingExecutor
	recorder Recorder
	logger   *zap.Logger

	tracer  trace.Tracer
	counter metric.Int64Counter

	openai      Adapter
	replicate   Adapter
	google      Adapter
	huggingface Adapter
}

// NewGateway wires the four adapters from cfg.
func NewGateway(cfg Config, resolver *CredentialResolver, logger *zap.Logger, opts ...Option) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gateway{
		resolver: resolver,
		recorder: nopRecorder{},
		logger:   logger.With(zap.String("component", "image_gateway")),
		tracer:   otel.Tracer(instrumentationName),
	}

	// Adapters supplied through WithAdapter must survive, so options run before
	// the defaults fill the remaining slots.
	for _, opt := range opts {
		opt(g)
	}
	if g.executor == nil {
		g.executor = NewPollingExecutor(logger)
	}

	if g.openai == nil {
		g.openai = NewOpenAIAdapter(cfg.OpenAI, logger)
	}
	if g.replicate == nil {
		g.replicate = NewReplicateAdapter(cfg.Replicate, g.executor, g.recorder, logger)
	}
	if g.google == nil {
		g.google = NewGoogleAdapter(cfg.Google, logger)
	}
	if g.huggingface == nil {
		g.huggingface = NewHuggingFaceAdapter(cfg.HuggingFace, logger)
	}

	counter, err := otel.Meter(instrumentationName).Int64Counter("imagegate.generation.total",
		metric.WithDescription("Total number of generation requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		g.logger.Warn("failed to create generation counter", zap.Error(err))
	}
	g.counter = counter

	return g
}

// adapterFor is a closed switch; there is no runtime registration.
func (g *Gateway) adapterFor(p ProviderID) (Adapter, bool) {
	switch p {
	case ProviderOpenAI:
		return g.openai, true
	case ProviderReplicate:
		return g.replicate, true
	case ProviderGoogle:
		return g.google, true
	case ProviderHuggingFace:
		return g.huggingface, true
	default:
		return nil, false
	}
}

// Generate satisfies one request end to end.
func (g *Gateway) Generate(ctx context.Context, in GenerateInput) (result CanonicalResult, err error) {
	start := time.Now()
	ctx, span := g.tracer.Start(ctx, "image.generate",
		trace.WithAttributes(attribute.String("image.provider", in.Provider)))
	defer span.End()

	logger := g.logger
	if id, ok := ctxkeys.RequestID(ctx); ok {
		logger = logger.With(zap.String("request_id", id))
	}
	if traceID, ok := ctxkeys.TraceID(ctx); ok {
		logger = logger.With(zap.String("trace_id", traceID))
	}

	// 只在解析成功后使用规范名，避免调用方输入成为指标标签
	provider := ""
	defer func() {
		code := "OK"
		if err != nil {
			code = string(types.GetErrorCode(err))
			if code == "" {
				code = string(types.ErrInternalError)
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, code)
			logger.Warn("generation failed",
				zap.String("provider", provider),
				zap.String("requested_provider", in.Provider),
				zap.String("code", code),
				zap.Error(err),
			)
		} else {
			span.SetStatus(codes.Ok, "")
			logger.Info("generation completed",
				zap.String("provider", provider),
				zap.String("mime_type", result.MimeType),
				zap.Duration("duration", time.Since(start)),
			)
		}
		label := provider
		if label == "" {
			label = "unknown"
		}
		g.recorder.RecordGeneration(label, code, time.Since(start))
		if g.counter != nil {
			g.counter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("provider", label),
				attribute.String("code", code)))
		}
	}()

	if !g.resolver.IsEnabled(ctx) {
		return CanonicalResult{}, types.NewError(types.ErrGenerationDisabled, "image generation is disabled")
	}

	req, err := NewGenerationRequest(in.Prompt, in.Provider, in.ModelHint)
	if err != nil {
		return CanonicalResult{}, err
	}
	provider = string(req.Provider())
	span.SetAttributes(attribute.String("image.provider", provider))

	cred, ok := g.resolver.Resolve(ctx, req.Provider())
	if !ok {
		key, _ := CredentialKey(req.Provider())
		return CanonicalResult{}, types.NewError(types.ErrCredentialMissing,
			"no credential configured for "+provider+" ("+key+")").WithProvider(provider)
	}

	adapter, ok := g.adapterFor(req.Provider())
	if !ok || adapter == nil {
		return CanonicalResult{}, types.NewError(types.ErrUnknownProvider, "no adapter for provider "+quoteForMessage(provider))
	}

	payload, err := adapter.Invoke(ctx, req, cred)
	if err != nil {
		if types.GetErrorCode(err) == "" {
			return CanonicalResult{}, types.NewError(types.ErrProviderError, redact(err.Error(), cred.Secret())).
				WithProvider(provider)
		}
		return CanonicalResult{}, err
	}

	return Normalize(payload, adapter.MimeType())
}

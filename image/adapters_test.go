package image

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/BaSui01/imagegate/testutil"
	"github.com/BaSui01/imagegate/testutil/fixtures"
	"github.com/BaSui01/imagegate/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRequest(t *testing.T, prompt string, provider ProviderID, hint string) GenerationRequest {
	t.Helper()
	req, err := NewGenerationRequest(prompt, string(provider), hint)
	require.NoError(t, err)
	return req
}

func normalized(t *testing.T, a Adapter, p Payload) []byte {
	t.Helper()
	res, err := Normalize(p, a.MimeType())
	require.NoError(t, err)
	raw, err := res.Decode()
	require.NoError(t, err)
	return raw
}

// --- OpenAI ---

func TestOpenAIAdapter_FetchesURLOnce(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	fake.OpenAIReturnsURL(fixtures.PNG())

	a := NewOpenAIAdapter(OpenAIConfig{BaseURL: fake.URL()}, nil)
	p, err := a.Invoke(context.Background(), mustRequest(t, "a nurse", ProviderOpenAI, "ignored-model"),
		NewProviderCredential(ProviderOpenAI, "sk-test"))
	require.NoError(t, err)
	assert.Equal(t, fixtures.PNG(), normalized(t, a, p))
	assert.Equal(t, MimePNG, a.MimeType())

	reqs := fake.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/v1/images/generations", reqs[0].Path)
	assert.Equal(t, "Bearer sk-test", reqs[0].Authorization)
	assert.Empty(t, reqs[1].Authorization, "reference fetch must not carry the credential")
	assert.Equal(t, 1, fake.RequestsTo("/files/result.png"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	assert.Equal(t, "dall-e-3", body["model"])
	assert.Equal(t, "a nurse", body["prompt"])
	assert.Equal(t, float64(1), body["n"])
	assert.Equal(t, "1024x1024", body["size"])
}

func TestOpenAIAdapter_InlineBase64(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	fake.OpenAIReturnsB64(fixtures.PNG())

	a := NewOpenAIAdapter(OpenAIConfig{BaseURL: fake.URL()}, nil)
	p, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderOpenAI, ""),
		NewProviderCredential(ProviderOpenAI, "sk-test"))
	require.NoError(t, err)
	assert.IsType(t, Base64Data(""), p)
	assert.Equal(t, fixtures.PNG(), normalized(t, a, p))
}

func TestOpenAIAdapter_ErrorRedactsSecret(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	fake.JSON(http.MethodPost, "/v1/images/generations", http.StatusUnauthorized, map[string]any{
		"error": map[string]string{"message": "Incorrect API key provided: sk-secret-999"},
	})

	a := NewOpenAIAdapter(OpenAIConfig{BaseURL: fake.URL()}, nil)
	_, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderOpenAI, ""),
		NewProviderCredential(ProviderOpenAI, "sk-secret-999"))
	require.Error(t, err)

	typed, ok := types.AsError(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrProviderError, typed.Code)
	assert.Equal(t, "openai", typed.Provider)
	assert.Contains(t, err.Error(), "status=401")
	assert.Contains(t, err.Error(), "Incorrect API key provided")
	testutil.AssertNoSecret(t, err.Error(), "sk-secret-999")
}

func TestOpenAIAdapter_EmptyData(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	fake.JSON(http.MethodPost, "/v1/images/generations", http.StatusOK, map[string]any{"data": []any{}})

	a := NewOpenAIAdapter(OpenAIConfig{BaseURL: fake.URL()}, nil)
	_, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderOpenAI, ""),
		NewProviderCredential(ProviderOpenAI, "k"))
	assert.True(t, types.IsCode(err, types.ErrProviderError))
}

func TestOpenAIAdapter_ReferenceFetchFails(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	fake.JSON(http.MethodPost, "/v1/images/generations", http.StatusOK, map[string]any{
		"data": []map[string]string{{"url": fake.URL() + "/files/missing.png"}},
	})

	a := NewOpenAIAdapter(OpenAIConfig{BaseURL: fake.URL()}, nil)
	_, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderOpenAI, ""),
		NewProviderCredential(ProviderOpenAI, "k"))
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrProviderError))
	assert.Contains(t, err.Error(), "status=404")
}

// --- Replicate ---

func newTestReplicate(baseURL string, attempts int) *ReplicateAdapter {
	return NewReplicateAdapter(ReplicateConfig{
		BaseURL:         baseURL,
		Model:           "black-forest-labs/flux-dev",
		MaxPollAttempts: attempts,
		PollInterval:    time.Millisecond,
	}, newTestExecutor(), nil, nil)
}

func TestReplicateAdapter_SubmitTarget(t *testing.T) {
	a := newTestReplicate("https://api.replicate.com", 1)

	tests := []struct {
		model    string
		endpoint string
		version  string
		wantErr  bool
	}{
		{"owner/name", "https://api.replicate.com/v1/models/owner/name/predictions", "", false},
		{"owner/name:abc123", "https://api.replicate.com/v1/predictions", "abc123", false},
		{"abc123", "https://api.replicate.com/v1/predictions", "abc123", false},
		{"owner/", "", "", true},
		{"a/b/c", "", "", true},
		{"owner/name:", "", "", true},
		{"../name", "", "", true},
		{"owner/..", "", "", true},
		{"./.", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			endpoint, body, err := a.submitTarget(tt.model)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.endpoint, endpoint)
			assert.Equal(t, tt.version, body.Version)
		})
	}
}

func TestReplicateAdapter_StatusMapping(t *testing.T) {
	assert.Equal(t, JobPending, replicateStatus("starting"))
	assert.Equal(t, JobRunning, replicateStatus("processing"))
	assert.Equal(t, JobSucceeded, replicateStatus("succeeded"))
	assert.Equal(t, JobFailed, replicateStatus("failed"))
	assert.Equal(t, JobFailed, replicateStatus("canceled"))
	assert.Equal(t, JobRunning, replicateStatus("queued-somewhere"))
}

func TestReplicateAdapter_FirstOutput(t *testing.T) {
	assert.Equal(t, "a", firstOutput(json.RawMessage(`["a","b"]`)))
	assert.Equal(t, "s", firstOutput(json.RawMessage(`"s"`)))
	assert.Equal(t, "", firstOutput(json.RawMessage(`[]`)))
	assert.Equal(t, "", firstOutput(json.RawMessage(`null`)))
	assert.Equal(t, "", firstOutput(nil))
}

func TestReplicateAdapter_SucceedsAfterPolling(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	link := fake.ServeFile("/out/0.webp", "image/webp", fixtures.WEBP())
	pollPath := fake.ReplicatePredicts(testutil.ReplicateJob{
		SubmitPath: "/v1/models/black-forest-labs/flux-dev/predictions",
		Statuses:   []string{"starting", "processing", "succeeded"},
		Output:     []string{link},
	})

	a := newTestReplicate(fake.URL(), 10)
	p, err := a.Invoke(context.Background(), mustRequest(t, "a fox", ProviderReplicate, ""),
		NewProviderCredential(ProviderReplicate, "r8_test"))
	require.NoError(t, err)
	assert.Equal(t, fixtures.WEBP(), normalized(t, a, p))
	assert.Equal(t, MimeWEBP, a.MimeType())
	assert.Equal(t, 3, fake.RequestsTo(pollPath))

	reqs := fake.Requests()
	assert.Equal(t, "Token r8_test", reqs[0].Authorization)
	var body map[string]any
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	assert.NotContains(t, body, "version")
	assert.Equal(t, map[string]any{"prompt": "a fox"}, body["input"])
}

func TestReplicateAdapter_VersionedModelHint(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	fake.ReplicatePredicts(testutil.ReplicateJob{
		SubmitPath: "/v1/predictions",
		Statuses:   []string{"succeeded"},
		Output:     "data:image/webp;base64," + fixtures.Base64(fixtures.WEBP()),
	})

	a := newTestReplicate(fake.URL(), 5)
	p, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderReplicate, "stability-ai/sdxl:39ed52f2"),
		NewProviderCredential(ProviderReplicate, "k"))
	require.NoError(t, err)
	assert.Equal(t, fixtures.WEBP(), normalized(t, a, p))

	var body map[string]any
	require.NoError(t, json.Unmarshal(fake.Requests()[0].Body, &body))
	assert.Equal(t, "39ed52f2", body["version"])
}

func TestReplicateAdapter_MissingPollURL(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	fake.JSON(http.MethodPost, "/v1/models/black-forest-labs/flux-dev/predictions", http.StatusCreated,
		map[string]any{"id": "p", "status": "starting"})

	a := newTestReplicate(fake.URL(), 5)
	_, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderReplicate, ""),
		NewProviderCredential(ProviderReplicate, "k"))
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrProviderError))
	assert.Contains(t, err.Error(), "urls.get")
	assert.Len(t, fake.Requests(), 1, "must not poll a malformed handle")
}

func TestReplicateAdapter_SubmitRejected(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	fake.JSON(http.MethodPost, "/v1/models/black-forest-labs/flux-dev/predictions", http.StatusUnprocessableEntity,
		map[string]any{"title": "Invalid input", "detail": "prompt is too long"})

	a := newTestReplicate(fake.URL(), 5)
	_, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderReplicate, ""),
		NewProviderCredential(ProviderReplicate, "k"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=422")
	assert.Contains(t, err.Error(), "prompt is too long")
}

func TestReplicateAdapter_InvalidSlug(t *testing.T) {
	a := newTestReplicate("http://127.0.0.1:1", 5)
	_, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderReplicate, "a/b/c"),
		NewProviderCredential(ProviderReplicate, "k"))
	typed, ok := types.AsError(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrInvalidRequest, typed.Code)
	assert.Equal(t, "replicate", typed.Provider)
}

func TestReplicateAdapter_Timeout(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	pollPath := fake.ReplicatePredicts(testutil.ReplicateJob{
		SubmitPath: "/v1/models/black-forest-labs/flux-dev/predictions",
		Statuses:   []string{"processing"},
	})

	rec := &recordingRecorder{}
	a := NewReplicateAdapter(ReplicateConfig{
		BaseURL:         fake.URL(),
		MaxPollAttempts: 4,
		PollInterval:    time.Millisecond,
	}, newTestExecutor(), rec, nil)

	_, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderReplicate, ""),
		NewProviderCredential(ProviderReplicate, "k"))
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrTimeout))
	assert.Equal(t, 4, fake.RequestsTo(pollPath))
	assert.Equal(t, []int{4}, rec.pollAttempts)
}

func TestReplicateAdapter_PollErrorsAreTolerated(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	fake.JSON(http.MethodPost, "/v1/predictions", http.StatusCreated, map[string]any{
		"id": "p", "status": "starting",
		"urls": map[string]string{"get": fake.URL() + "/v1/predictions/p"},
	})
	var polls atomic.Int32
	fake.Handle(http.MethodGet, "/v1/predictions/p", func(w http.ResponseWriter, _ *http.Request) {
		if polls.Add(1) == 1 {
			http.Error(w, "bad gateway", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"p","status":"succeeded","output":"data:image/webp;base64,` +
			fixtures.Base64(fixtures.WEBP()) + `"}`))
	})

	a := newTestReplicate(fake.URL(), 5)
	p, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderReplicate, "abc123"),
		NewProviderCredential(ProviderReplicate, "k"))
	require.NoError(t, err)
	assert.Equal(t, fixtures.WEBP(), normalized(t, a, p))
	assert.Equal(t, int32(2), polls.Load())
}

// --- Google ---

func TestGoogleAdapter_Predict(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	fake.GoogleReturns("imagen-3.0-generate-002", fixtures.PNG())

	a := NewGoogleAdapter(GoogleConfig{BaseURL: fake.URL()}, nil)
	p, err := a.Invoke(context.Background(), mustRequest(t, "a lighthouse", ProviderGoogle, "ignored"),
		NewProviderCredential(ProviderGoogle, "g-key"))
	require.NoError(t, err)
	assert.Equal(t, fixtures.PNG(), normalized(t, a, p))

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/v1beta/models/imagen-3.0-generate-002:predict", reqs[0].Path)
	assert.Equal(t, "g-key", reqs[0].GoogAPIKey)
	assert.Empty(t, reqs[0].Authorization)
	testutil.AssertJSONBody(t, reqs[0].Body, map[string]any{
		"instances":  []map[string]string{{"prompt": "a lighthouse"}},
		"parameters": map[string]int{"sampleCount": 1},
	})
}

func TestGoogleAdapter_NoPredictions(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	fake.JSON(http.MethodPost, "/v1beta/models/imagen-3.0-generate-002:predict", http.StatusOK, map[string]any{})

	a := NewGoogleAdapter(GoogleConfig{BaseURL: fake.URL()}, nil)
	_, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderGoogle, ""),
		NewProviderCredential(ProviderGoogle, "g"))
	assert.True(t, types.IsCode(err, types.ErrProviderError))
}

func TestGoogleAdapter_APIError(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	fake.JSON(http.MethodPost, "/v1beta/models/imagen-3.0-generate-002:predict", http.StatusBadRequest,
		map[string]any{"error": map[string]any{"code": 400, "message": "API key not valid"}})

	a := NewGoogleAdapter(GoogleConfig{BaseURL: fake.URL()}, nil)
	_, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderGoogle, ""),
		NewProviderCredential(ProviderGoogle, "g"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

// --- Hugging Face ---

func TestHuggingFaceAdapter_RawBytes(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	fake.HuggingFaceReturns("black-forest-labs/FLUX.1-dev", fixtures.JPEG())

	a := NewHuggingFaceAdapter(HuggingFaceConfig{BaseURL: fake.URL()}, nil)
	p, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderHuggingFace, "not-a-repo"),
		NewProviderCredential(ProviderHuggingFace, "hf_abc"))
	require.NoError(t, err)
	assert.IsType(t, RawBytes{}, p)
	assert.Equal(t, fixtures.JPEG(), normalized(t, a, p))
	assert.Equal(t, MimeJPEG, a.MimeType())
	assert.Equal(t, "Bearer hf_abc", fake.Requests()[0].Authorization)
	body := testutil.MustParseJSON[map[string]string](string(fake.Requests()[0].Body))
	assert.Equal(t, map[string]string{"inputs": "x"}, body)
}

func TestHuggingFaceAdapter_ModelHint(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	fake.HuggingFaceReturns("stabilityai/sdxl", fixtures.JPEG())

	a := NewHuggingFaceAdapter(HuggingFaceConfig{BaseURL: fake.URL()}, nil)
	_, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderHuggingFace, "stabilityai/sdxl"),
		NewProviderCredential(ProviderHuggingFace, "hf"))
	require.NoError(t, err)
	assert.Equal(t, 1, fake.RequestsTo("/models/stabilityai/sdxl"))
}

func TestHuggingFaceAdapter_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "loading",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "Model is currently loading", http.StatusServiceUnavailable)
			},
			want: "Model is currently loading",
		},
		{
			name:    "empty body",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.Header().Set("Content-Type", "image/jpeg") },
			want:    "empty body",
		},
		{
			name: "json on success",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"error":"out of memory"}`))
			},
			want: "out of memory",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeProvider(t)
			fake.Handle(http.MethodPost, "/models/black-forest-labs/FLUX.1-dev", tt.handler)

			a := NewHuggingFaceAdapter(HuggingFaceConfig{BaseURL: fake.URL()}, nil)
			_, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderHuggingFace, ""),
				NewProviderCredential(ProviderHuggingFace, "hf"))
			require.Error(t, err)
			assert.True(t, types.IsCode(err, types.ErrProviderError))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestHuggingFaceAdapter_HintMustBeRepoID(t *testing.T) {
	tests := []struct {
		hint string
		path string
	}{
		{"../x", "/models/black-forest-labs/FLUX.1-dev"},
		{"../../admin/x", "/models/black-forest-labs/FLUX.1-dev"},
		{"owner/..", "/models/black-forest-labs/FLUX.1-dev"},
		{"/name", "/models/black-forest-labs/FLUX.1-dev"},
		{"owner/na?me", "/models/owner/na?me"},
	}
	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			fake := testutil.NewFakeProvider(t)
			fake.HuggingFaceReturns(strings.TrimPrefix(tt.path, "/models/"), fixtures.JPEG())

			a := NewHuggingFaceAdapter(HuggingFaceConfig{BaseURL: fake.URL()}, nil)
			_, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderHuggingFace, tt.hint),
				NewProviderCredential(ProviderHuggingFace, "hf"))
			require.NoError(t, err)

			reqs := fake.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, tt.path, reqs[0].Path)
		})
	}
}

func TestHuggingFaceAdapter_SecretAcrossDetailCut(t *testing.T) {
	const secret = "sk-SUPERSECRET-0123456789"

	// 凭证分别跨过 512 字节处与消息截断处
	for _, padding := range []int{502, maxMessageBytes - 40} {
		t.Run(strconv.Itoa(padding), func(t *testing.T) {
			fake := testutil.NewFakeProvider(t)
			fake.Handle(http.MethodPost, "/models/black-forest-labs/FLUX.1-dev", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(strings.Repeat("x", padding) + secret + strings.Repeat("y", 100)))
			})

			a := NewHuggingFaceAdapter(HuggingFaceConfig{BaseURL: fake.URL()}, nil)
			_, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderHuggingFace, ""),
				NewProviderCredential(ProviderHuggingFace, secret))
			require.Error(t, err)

			apiErr, ok := types.AsError(err)
			require.True(t, ok)
			assert.Equal(t, types.ErrProviderError, apiErr.Code)
			assert.LessOrEqual(t, len(apiErr.Message), maxMessageBytes+len("..."))
			for i := 6; i <= len(secret); i++ {
				testutil.AssertNoSecret(t, apiErr.Message, secret[:i])
			}
		})
	}
}

func TestHuggingFaceAdapter_OversizedResultFails(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	fake.HuggingFaceReturns("black-forest-labs/FLUX.1-dev", make([]byte, maxImageBytes+1))

	a := NewHuggingFaceAdapter(HuggingFaceConfig{BaseURL: fake.URL()}, nil)
	p, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderHuggingFace, ""),
		NewProviderCredential(ProviderHuggingFace, "hf"))
	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, types.IsCode(err, types.ErrProviderError))
	assert.Contains(t, err.Error(), "exceeds")
}

func TestOpenAIAdapter_OversizedReferenceFails(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	fake.OpenAIReturnsURL(make([]byte, maxImageBytes+1000))

	a := NewOpenAIAdapter(OpenAIConfig{BaseURL: fake.URL()}, nil)
	p, err := a.Invoke(context.Background(), mustRequest(t, "x", ProviderOpenAI, ""),
		NewProviderCredential(ProviderOpenAI, "sk-test"))
	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, types.IsCode(err, types.ErrProviderError))
	assert.Contains(t, err.Error(), "exceeds")
}

func TestDo_BodyLimit(t *testing.T) {
	fake := testutil.NewFakeProvider(t)
	fake.ServeFile("/exact", "image/png", []byte("12345678"))
	fake.ServeFile("/over", "image/png", []byte("123456789"))
	client := newHTTPClient(time.Second)

	res, err := do(context.Background(), client, http.MethodGet, fake.URL()+"/exact", nil, nil, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte("12345678"), res.body)

	_, err = do(context.Background(), client, http.MethodGet, fake.URL()+"/over", nil, nil, 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "response exceeds 8 bytes")
}

func TestTruncate_RuneBoundary(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab...", truncate("abcd", 2))

	// "é" 占两个字节，截断点落在其中间
	got := truncate("aé", 2)
	assert.Equal(t, "a...", got)
	assert.True(t, utf8.ValidString(got))

	got = truncate(strings.Repeat("图", 30), 64)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 64+len("..."))
}

func TestQuoteForMessage_ValidUTF8(t *testing.T) {
	got := quoteForMessage("a" + strings.Repeat("画", 40))
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasPrefix(got, "\"a画"))
	assert.True(t, strings.HasSuffix(got, "...\""))
}

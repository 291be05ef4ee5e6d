package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BaSui01/imagegate/internal/tlsutil"
	"github.com/BaSui01/imagegate/types"
)

// Adapter converts a canonical request into one provider's wire protocol and
// the provider's response into a Payload. Any non-success outcome is returned
// as a *types.Error, normally PROVIDER_ERROR.
type Adapter interface {
	// Provider returns the provider this adapter serves.
	Provider() ProviderID

	// MimeType returns the provider's fixed output mime type.
	MimeType() string

	// Invoke performs the generation.
	Invoke(ctx context.Context, req GenerationRequest, cred ProviderCredential) (Payload, error)
}

const (
	maxImageBytes   = 32 << 20
	maxMessageBytes = 1024
)

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return tlsutil.SecureHTTPClient(timeout)
}

// providerError builds a PROVIDER_ERROR for p. Details arrive untruncated:
// the secret is redacted from the full text first, then the message is cut.
func providerError(p ProviderID, secret, format string, args ...any) *types.Error {
	msg := truncate(redact(fmt.Sprintf(format, args...), secret), maxMessageBytes)
	return types.NewError(types.ErrProviderError, msg).WithProvider(string(p))
}

// transportError wraps a failed round trip. The cause is flattened into the
// message so that a secret echoed by the transport layer is redacted too.
func transportError(p ProviderID, secret, what string, err error) *types.Error {
	return providerError(p, secret, "%s failed: %v", what, err)
}

// httpResult is a fully-read response.
type httpResult struct {
	status      int
	contentType string
	body        []byte
}

func (r httpResult) ok() bool { return r.status >= 200 && r.status < 300 }

// detail returns the body as a diagnostic string. It is not truncated here;
// providerError cuts it after redaction.
func (r httpResult) detail() string {
	return strings.TrimSpace(string(r.body))
}

// do sends one request and reads the body. A body larger than limit is an
// error, never a silently shortened result.
func do(ctx context.Context, client *http.Client, method, endpoint string, body any, header http.Header, limit int64) (httpResult, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return httpResult{}, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return httpResult{}, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return httpResult{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return httpResult{}, fmt.Errorf("read response: %w", err)
	}
	if int64(len(data)) > limit {
		return httpResult{}, fmt.Errorf("response exceeds %d bytes", limit)
	}
	return httpResult{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        data,
	}, nil
}

// fetchReference downloads a provider-hosted result exactly once so callers
// never see provider URLs. The provider credential is not sent.
func fetchReference(ctx context.Context, client *http.Client, p ProviderID, secret, ref string) (RawBytes, error) {
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		return nil, providerError(p, secret, "result reference is not an http(s) URL")
	}
	res, err := do(ctx, client, http.MethodGet, ref, nil, nil, maxImageBytes)
	if err != nil {
		return nil, transportError(p, secret, "fetch result", err)
	}
	if !res.ok() {
		return nil, providerError(p, secret, "fetch result: status=%d body=%s", res.status, res.detail())
	}
	if len(res.body) == 0 {
		return nil, providerError(p, secret, "fetch result: empty body")
	}
	return RawBytes(res.body), nil
}

// apiErrorMessage extracts {"error":{"message":...}} or {"error":"..."}.
func apiErrorMessage(body []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return ""
	}
	return rawErrorText(envelope.Error)
}

// rawErrorText renders a JSON error value that may be null, a string, or an
// object with a message field.
func rawErrorText(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	return trimmed
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "***")
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// modelPath validates an "owner/name" repo id and returns it path-escaped.
// Exactly two non-empty segments, neither "." nor "..".
func modelPath(model string) (string, bool) {
	parts := strings.Split(model, "/")
	if len(parts) != 2 {
		return "", false
	}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return "", false
		}
	}
	return url.PathEscape(parts[0]) + "/" + url.PathEscape(parts[1]), true
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

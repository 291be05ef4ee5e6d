package testutil

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RecordedRequest 是假服务商收到的一次请求
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	GoogAPIKey    string
	Body          []byte
}

// FakeProvider 是一个 httptest 服务器，按 "METHOD path" 精确路由。
// 未注册的路由返回 404。
type FakeProvider struct {
	server *httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []RecordedRequest
}

// NewFakeProvider 启动假服务商并在测试结束时关闭
func NewFakeProvider(t *testing.T) *FakeProvider {
	t.Helper()
	f := &FakeProvider{routes: make(map[string]http.HandlerFunc)}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *FakeProvider) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		GoogAPIKey:    r.Header.Get("x-goog-api-key"),
		Body:          body,
	})
	h, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
		return
	}
	h(w, r)
}

// URL 返回服务器根地址
func (f *FakeProvider) URL() string { return f.server.URL }

// Handle 注册一个路由
func (f *FakeProvider) Handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = h
}

// Requests 返回收到的全部请求
func (f *FakeProvider) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// RequestsTo 返回发往 path 的请求数
func (f *FakeProvider) RequestsTo(path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

// ServeFile 在 path 上返回 data
func (f *FakeProvider) ServeFile(path, contentType string, data []byte) string {
	f.Handle(http.MethodGet, path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(data)
	})
	return f.URL() + path
}

// JSON 注册一个返回固定状态码与 JSON 的路由
func (f *FakeProvider) JSON(method, path string, status int, v any) {
	f.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, status, v)
	})
}

// --- 服务商场景 ---

// OpenAIReturnsURL 让 DALL-E 返回一个指向本服务器的结果链接
func (f *FakeProvider) OpenAIReturnsURL(img []byte) {
	link := f.ServeFile("/files/result.png", "image/png", img)
	f.JSON(http.MethodPost, "/v1/images/generations", http.StatusOK, map[string]any{
		"created": 1700000000,
		"data":    []map[string]string{{"url": link}},
	})
}

// OpenAIReturnsB64 让 DALL-E 内联返回 b64_json
func (f *FakeProvider) OpenAIReturnsB64(img []byte) {
	f.JSON(http.MethodPost, "/v1/images/generations", http.StatusOK, map[string]any{
		"created": 1700000000,
		"data":    []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString(img)}},
	})
}

// GoogleReturns 让 Imagen 返回 img
func (f *FakeProvider) GoogleReturns(model string, img []byte) {
	f.JSON(http.MethodPost, "/v1beta/models/"+model+":predict", http.StatusOK, map[string]any{
		"predictions": []map[string]string{{
			"bytesBase64Encoded": base64.StdEncoding.EncodeToString(img),
			"mimeType":           "image/png",
		}},
	})
}

// HuggingFaceReturns 让推理接口返回原始字节
func (f *FakeProvider) HuggingFaceReturns(model string, img []byte) {
	f.Handle(http.MethodPost, "/models/"+model, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(img)
	})
}

// ReplicateJob 描述一次预测的生命周期
type ReplicateJob struct {
	// SubmitPath 是提交端点，例如 /v1/predictions 或 /v1/models/o/n/predictions
	SubmitPath string
	// Statuses 是每次轮询依次返回的状态，最后一个会一直重复
	Statuses []string
	// Output 在 succeeded 时返回
	Output any
	// Error 在 failed 时返回
	Error string
}

// ReplicatePredicts 注册提交与轮询路由，返回轮询路径
func (f *FakeProvider) ReplicatePredicts(job ReplicateJob) string {
	const pollPath = "/v1/predictions/pred-1"

	f.JSON(http.MethodPost, job.SubmitPath, http.StatusCreated, map[string]any{
		"id":     "pred-1",
		"status": "starting",
		"urls":   map[string]string{"get": f.URL() + pollPath},
	})

	var mu sync.Mutex
	polls := 0
	f.Handle(http.MethodGet, pollPath, func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		idx := polls
		polls++
		mu.Unlock()

		status := "processing"
		if len(job.Statuses) > 0 {
			if idx >= len(job.Statuses) {
				idx = len(job.Statuses) - 1
			}
			status = job.Statuses[idx]
		}
		resp := map[string]any{
			"id":     "pred-1",
			"status": status,
			"urls":   map[string]string{"get": f.URL() + pollPath},
		}
		switch status {
		case "succeeded":
			resp["output"] = job.Output
		case "failed":
			resp["error"] = job.Error
		}
		writeJSON(w, http.StatusOK, resp)
	})
	return pollPath
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

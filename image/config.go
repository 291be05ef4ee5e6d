package image

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// OpenAIConfig配置了OpenAI DALL-E适配器.
type OpenAIConfig struct {
	BaseURL string        `json:"base_url" yaml:"base_url" env:"BASE_URL"`
	Model   string        `json:"model,omitempty" yaml:"model,omitempty" env:"MODEL"` // dall-e-3
	Size    string        `json:"size,omitempty" yaml:"size,omitempty" env:"SIZE"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" env:"TIMEOUT"`
}

// ReplicateConfig配置了Replicate异步适配器.
// MaxPollAttempts 与 PollInterval 是硬上限，调用方无法延长。
type ReplicateConfig struct {
	BaseURL         string        `json:"base_url" yaml:"base_url" env:"BASE_URL"`
	Model           string        `json:"model,omitempty" yaml:"model,omitempty" env:"MODEL"` // owner/name or owner/name:version
	Timeout         time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" env:"TIMEOUT"`
	MaxPollAttempts int           `json:"max_poll_attempts,omitempty" yaml:"max_poll_attempts,omitempty" env:"MAX_POLL_ATTEMPTS"`
	PollInterval    time.Duration `json:"poll_interval,omitempty" yaml:"poll_interval,omitempty" env:"POLL_INTERVAL"`
}

// GoogleConfig配置了Google Imagen适配器.
type GoogleConfig struct {
	BaseURL string        `json:"base_url" yaml:"base_url" env:"BASE_URL"`
	Model   string        `json:"model,omitempty" yaml:"model,omitempty" env:"MODEL"` // imagen-3.0-generate-002
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" env:"TIMEOUT"`
}

// HuggingFaceConfig配置了Hugging Face推理适配器.
type HuggingFaceConfig struct {
	BaseURL string        `json:"base_url" yaml:"base_url" env:"BASE_URL"`
	Model   string        `json:"model,omitempty" yaml:"model,omitempty" env:"MODEL"` // black-forest-labs/FLUX.1-dev
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" env:"TIMEOUT"`
}

// Config 汇总所有适配器配置.
type Config struct {
	OpenAI      OpenAIConfig      `json:"openai" yaml:"openai" env:"OPENAI"`
	Replicate   ReplicateConfig   `json:"replicate" yaml:"replicate" env:"REPLICATE"`
	Google      GoogleConfig      `json:"google" yaml:"google" env:"GOOGLE"`
	HuggingFace HuggingFaceConfig `json:"huggingface" yaml:"huggingface" env:"HUGGINGFACE"`
}

// 默认 OpenAIConfig 返回默认 OpenAI 图像配置 。
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		BaseURL: "https://api.openai.com",
		Model:   "dall-e-3",
		Size:    "1024x1024",
		Timeout: 60 * time.Second,
	}
}

// 默认ReplicateConfig 返回默认Replicate配置 。
// 30 次 × 1 秒，保证在宿主环境的执行时限之前退出。
func DefaultReplicateConfig() ReplicateConfig {
	return ReplicateConfig{
		BaseURL:         "https://api.replicate.com",
		Model:           "black-forest-labs/flux-dev",
		Timeout:         15 * time.Second,
		MaxPollAttempts: 30,
		PollInterval:    time.Second,
	}
}

// 默认GoogleConfig返回默认Imagen配置.
func DefaultGoogleConfig() GoogleConfig {
	return GoogleConfig{
		BaseURL: "https://generativelanguage.googleapis.com",
		Model:   "imagen-3.0-generate-002",
		Timeout: 60 * time.Second,
	}
}

// 默认HuggingFaceConfig返回默认推理配置.
func DefaultHuggingFaceConfig() HuggingFaceConfig {
	return HuggingFaceConfig{
		BaseURL: "https://api-inference.huggingface.co",
		Model:   "black-forest-labs/FLUX.1-dev",
		Timeout: 60 * time.Second,
	}
}

// DefaultConfig returns defaults for every adapter.
func DefaultConfig() Config {
	return Config{
		OpenAI:      DefaultOpenAIConfig(),
		Replicate:   DefaultReplicateConfig(),
		Google:      DefaultGoogleConfig(),
		HuggingFace: DefaultHuggingFaceConfig(),
	}
}

// Validate 校验所有适配器配置；Replicate 的轮询预算必须为正。
func (c Config) Validate() error {
	var errs []error
	check := func(name, baseURL, model string) {
		u, err := url.Parse(baseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("gateway.%s.base_url %q is not an absolute URL", name, baseURL))
		}
		if strings.TrimSpace(model) == "" {
			errs = append(errs, fmt.Errorf("gateway.%s.model is required", name))
		}
	}
	check("openai", c.OpenAI.BaseURL, c.OpenAI.Model)
	check("replicate", c.Replicate.BaseURL, c.Replicate.Model)
	check("google", c.Google.BaseURL, c.Google.Model)
	check("huggingface", c.HuggingFace.BaseURL, c.HuggingFace.Model)

	if c.Replicate.MaxPollAttempts <= 0 {
		errs = append(errs, errors.New("gateway.replicate.max_poll_attempts must be positive"))
	}
	if c.Replicate.PollInterval <= 0 {
		errs = append(errs, errors.New("gateway.replicate.poll_interval must be positive"))
	}
	return errors.Join(errs...)
}

package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/BaSui01/imagegate/api"
	"github.com/BaSui01/imagegate/image"
	"github.com/BaSui01/imagegate/types"
)

// Generator 是 GenerateHandler 依赖的网关能力
type Generator interface {
	Generate(ctx context.Context, in image.GenerateInput) (image.CanonicalResult, error)
}

// GenerateHandler 处理 POST /api/generate
type GenerateHandler struct {
	gateway      Generator
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewGenerateHandler 创建生成处理器
func NewGenerateHandler(gateway Generator, maxBodyBytes int64, logger *zap.Logger) *GenerateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerateHandler{
		gateway:      gateway,
		maxBodyBytes: maxBodyBytes,
		logger:       logger.With(zap.String("component", "generate_handler")),
	}
}

// ServeHTTP 生成图片
// @Summary 生成图片
// @Tags 生成
// @Accept json
// @Produce json
// @Param request body api.GenerateRequest true "生成请求"
// @Success 200 {object} Response{data=api.GenerateResponse}
// @Failure 400,403,404,405,502,504 {object} Response
// @Router /api/generate [post]
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		WriteError(w, r, types.NewError(types.ErrInvalidRequest, "method not allowed").
			WithHTTPStatus(http.StatusMethodNotAllowed), h.logger)
		return
	}

	var req api.GenerateRequest
	if err := DecodeJSONBody(w, r, &req, h.maxBodyBytes); err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	result, err := h.gateway.Generate(r.Context(), image.GenerateInput{
		Prompt:    req.Prompt,
		Provider:  req.Provider,
		ModelHint: req.Model,
	})
	if err != nil {
		WriteError(w, r, err, h.logger)
		return
	}

	// Generate 成功意味着 provider 已通过解析
	provider, _ := image.ParseProviderID(req.Provider)
	WriteSuccess(w, r, api.GenerateResponse{
		ImageURL: result.DataURI(),
		MimeType: result.MimeType,
		Provider: provider.String(),
	})
}

package image

import (
	"encoding/base64"
	"strings"

	"github.com/BaSui01/imagegate/types"
)

// Fixed output mime types, one per provider family.
const (
	MimePNG  = "image/png"
	MimeWEBP = "image/webp"
	MimeJPEG = "image/jpeg"
)

// Payload is what an adapter yields before normalization. The set is closed:
// RawBytes and Base64Data.
type Payload interface {
	payload()
}

// RawBytes is binary image content, either returned directly or fetched from a
// resolved reference.
type RawBytes []byte

// Base64Data is image content already encoded as standard base64.
type Base64Data string

func (RawBytes) payload()   {}
func (Base64Data) payload() {}

// CanonicalResult is the single success output regardless of provider.
type CanonicalResult struct {
	MimeType     string `json:"mime_type"`
	EncodedBytes string `json:"encoded_bytes"`
}

// DataURI renders the result as a self-describing data URI.
func (r CanonicalResult) DataURI() string {
	return "data:" + r.MimeType + ";base64," + r.EncodedBytes
}

// Decode returns the original image bytes.
func (r CanonicalResult) Decode() ([]byte, error) {
	return base64.StdEncoding.DecodeString(r.EncodedBytes)
}

// Normalize converts p into a CanonicalResult with the given mime type. It
// either fully succeeds or returns an INTERNAL_ERROR.
func Normalize(p Payload, mimeType string) (CanonicalResult, error) {
	if mimeType == "" {
		return CanonicalResult{}, types.NewError(types.ErrInternalError, "normalize: mime type is required")
	}

	switch v := p.(type) {
	case RawBytes:
		if len(v) == 0 {
			return CanonicalResult{}, types.NewError(types.ErrInternalError, "normalize: empty image payload")
		}
		return CanonicalResult{MimeType: mimeType, EncodedBytes: base64.StdEncoding.EncodeToString(v)}, nil

	case Base64Data:
		raw, err := decodeBase64(string(v))
		if err != nil {
			return CanonicalResult{}, types.NewError(types.ErrInternalError, "normalize: invalid base64 payload").WithCause(err)
		}
		if len(raw) == 0 {
			return CanonicalResult{}, types.NewError(types.ErrInternalError, "normalize: empty image payload")
		}
		return CanonicalResult{MimeType: mimeType, EncodedBytes: base64.StdEncoding.EncodeToString(raw)}, nil

	default:
		return CanonicalResult{}, types.NewError(types.ErrInternalError, "normalize: unrecognized payload shape")
	}
}

// ParseDataURI parses a base64 data URI produced by DataURI.
func ParseDataURI(s string) (CanonicalResult, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return CanonicalResult{}, types.NewError(types.ErrInvalidRequest, "not a data URI")
	}
	mimeType, data, ok := strings.Cut(rest, ";base64,")
	if !ok || mimeType == "" {
		return CanonicalResult{}, types.NewError(types.ErrInvalidRequest, "data URI is not base64 encoded")
	}
	return CanonicalResult{MimeType: mimeType, EncodedBytes: data}, nil
}

// decodeBase64 accepts standard or URL-safe alphabets, padded or not.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if raw, err := base64.StdEncoding.DecodeString(s); err == nil {
		return raw, nil
	}
	if raw, err := base64.RawStdEncoding.DecodeString(s); err == nil {
		return raw, nil
	}
	if raw, err := base64.URLEncoding.DecodeString(s); err == nil {
		return raw, nil
	}
	return base64.RawURLEncoding.DecodeString(s)
}

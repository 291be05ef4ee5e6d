package image

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/BaSui01/imagegate/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProviderID(t *testing.T) {
	tests := []struct {
		in   string
		want ProviderID
		ok   bool
	}{
		{"openai", ProviderOpenAI, true},
		{" OpenAI ", ProviderOpenAI, true},
		{"replicate", ProviderReplicate, true},
		{"google", ProviderGoogle, true},
		{"huggingface", ProviderHuggingFace, true},
		{"hf", ProviderHuggingFace, true},
		{"midjourney", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseProviderID(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewGenerationRequest(t *testing.T) {
	req, err := NewGenerationRequest("a nurse", "HF", "  owner/model ")
	require.NoError(t, err)
	assert.Equal(t, "a nurse", req.Prompt())
	assert.Equal(t, ProviderHuggingFace, req.Provider())
	assert.Equal(t, "owner/model", req.ModelHint())
	assert.True(t, req.HasModelHint())

	_, err = NewGenerationRequest("   ", "openai", "")
	assert.True(t, types.IsCode(err, types.ErrInvalidRequest))

	_, err = NewGenerationRequest("a cat", "dalle", "")
	assert.True(t, types.IsCode(err, types.ErrUnknownProvider))
	assert.Contains(t, err.Error(), `"dalle"`)
}

func TestProviderCredential_NeverPrintsSecret(t *testing.T) {
	cred := NewProviderCredential(ProviderOpenAI, "sk-live-123")

	assert.Equal(t, "sk-live-123", cred.Secret())
	for _, s := range []string{
		cred.String(),
		fmt.Sprintf("%v", cred),
		fmt.Sprintf("%+v", cred),
		fmt.Sprintf("%#v", cred),
	} {
		assert.NotContains(t, s, "sk-live-123")
	}

	data, err := json.Marshal(cred)
	require.NoError(t, err)
	assert.JSONEq(t, `{"provider":"openai","secret":"***"}`, string(data))
}

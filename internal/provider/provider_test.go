package provider

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestMockCompleter(t *testing.T) {
	out, err := NewMockCompleter().Complete(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, MockResponse, out)
	assert.Contains(t, out, "Summary: Mock summary")
}

func TestPlaceholder_Generate(t *testing.T) {
	url, err := NewPlaceholder().Generate(context.Background(), 42, "icon")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^https://picsum\.photos/seed/42-\d{1,3}/512/512$`), url)
}

func TestPlaceholder_Generate_Seeded(t *testing.T) {
	p := &Placeholder{intN: func(int) int { return 7 }}

	url, err := p.Generate(context.Background(), 3, "")
	require.NoError(t, err)
	assert.Equal(t, "https://picsum.photos/seed/3-7/512/512", url)
}

func TestNewGemini_MissingKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "", "")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestResponseText(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr error
	}{
		{
			name:    "nil response",
			resp:    nil,
			wantErr: ErrEmptyResponse,
		},
		{
			name:    "no candidates",
			resp:    &genai.GenerateContentResponse{},
			wantErr: ErrEmptyResponse,
		},
		{
			name: "blocked",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{FinishReason: genai.FinishReasonSafety},
			}},
			wantErr: ErrContentBlocked,
		},
		{
			name: "joins text parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []*genai.Part{{Text: "```json\n{"}, {Text: "}\n```"}}}},
			}},
			want: "```json\n{}\n```",
		},
		{
			name: "empty parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []*genai.Part{{Text: ""}}}},
			}},
			wantErr: ErrEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := responseText(tt.resp)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDataURL(t *testing.T) {
	url, err := dataURL("image/jpeg", []byte{0xff, 0xd8})
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,/9g=", url)

	url, err = dataURL("", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,eA==", url)

	_, err = dataURL("image/png", nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"taskHelper/internal/logger"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	DefaultTextModel  = "gemini-2.0-flash"
	DefaultImageModel = "imagen-3.0-generate-002"
)

// Gemini talks to the Gemini API. One client serves both text and image calls.
type Gemini struct {
	client     *genai.Client
	textModel  string
	imageModel string
}

func NewGemini(ctx context.Context, apiKey, textModel, imageModel string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}
	if textModel == "" {
		textModel = DefaultTextModel
	}
	if imageModel == "" {
		imageModel = DefaultImageModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}

	logger.Info("Provider: Gemini client ready",
		zap.String("text_model", textModel),
		zap.String("image_model", imageModel))

	return &Gemini{client: client, textModel: textModel, imageModel: imageModel}, nil
}

// Complete makes a single GenerateContent call. It does not retry.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	resp, err := g.client.Models.GenerateContent(ctx, g.textModel, genai.Text(prompt), nil)
	if err != nil {
		logger.Error("Provider: Gemini completion failed", err, zap.Duration("ms", time.Since(start)))
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		logger.Error("Provider: Gemini returned no usable text", err)
		return "", err
	}

	logger.Info("Provider: Gemini completion received",
		zap.Int("chars", len(text)),
		zap.Duration("ms", time.Since(start)))
	return text, nil
}

// Generate asks the image model for one image and returns it inline as a data URL.
func (g *Gemini) Generate(ctx context.Context, taskID int64, prompt string) (string, error) {
	start := time.Now()

	resp, err := g.client.Models.GenerateImages(ctx, g.imageModel, prompt, nil)
	if err != nil {
		logger.Error("Provider: Gemini image generation failed", err, zap.Int64("task_id", taskID))
		return "", fmt.Errorf("gemini generate images: %w", err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return "", fmt.Errorf("gemini generate images: %w", ErrEmptyResponse)
	}

	image := resp.GeneratedImages[0].Image
	url, err := dataURL(image.MIMEType, image.ImageBytes)
	if err != nil {
		return "", err
	}

	logger.Info("Provider: Gemini image received",
		zap.Int64("task_id", taskID),
		zap.Int("bytes", len(image.ImageBytes)),
		zap.Duration("ms", time.Since(start)))
	return url, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("gemini: %w", ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}
	return sb.String(), nil
}

func dataURL(mimeType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("gemini image: %w", ErrEmptyResponse)
	}
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

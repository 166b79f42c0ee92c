package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/bridgeart/backend/config"
	"github.com/bridgeart/backend/pkg/api"
)

const (
	defaultImageGenEndpoint = "https://api.openai.com"
	defaultImageSize        = "1024x1024"
)

type ImageGenerator interface {
	// Generate returns a temporary URL of an image described by prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

type openAIImageGenerator struct {
	apiKey string
	model  string
	size   string

	apiGenerator api.Generator
}

func NewImageGenerator(cfg config.ImageGenConfigs) *openAIImageGenerator {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultImageGenEndpoint
	}

	return NewImageGeneratorWithGenerator(cfg, api.NewGenerator(endpoint))
}

func NewImageGeneratorWithGenerator(cfg config.ImageGenConfigs, generator api.Generator) *openAIImageGenerator {
	size := cfg.Size
	if size == "" {
		size = defaultImageSize
	}

	return &openAIImageGenerator{
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		size:         size,
		apiGenerator: generator,
	}
}

type imageGenerationResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *openAIImageGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	body := api.JSON{
		"prompt": prompt,
		"n":      1,
		"size":   g.size,
	}
	if g.model != "" {
		body["model"] = g.model
	}

	resp, err := g.apiGenerator.New("/v1/images/generations").
		Body(body).
		POST(ctx, api.Bearer(g.apiKey))
	if err != nil {
		return "", err
	}

	var result imageGenerationResponse
	if err := resp.Decode(&result); err != nil {
		return "", fmt.Errorf("cannot decode image response (status %d): %w", resp.Code, err)
	}

	if !resp.IsSuccess() {
		if result.Error != nil {
			return "", fmt.Errorf("image generation failed with status %d: %s", resp.Code, result.Error.Message)
		}
		return "", fmt.Errorf("image generation failed with status %d", resp.Code)
	}

	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return "", errors.New("image generation returned no image")
	}

	return result.Data[0].URL, nil
}

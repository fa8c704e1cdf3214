package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	config "github.com/Shashank-765/LinkedInAutomation-sub000/configs"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/transfer"
)

// ContentService synthesizes post text and an illustration for the
// calendar/industry triggers. A generation failure prevents the post from
// being created at all; there is no partial post.
type ContentService interface {
	GeneratePostText(ctx context.Context, topic, tone, industry string) (string, error)
	GeneratePostImage(ctx context.Context, topic string) ([]byte, error)
}

type contentService struct {
	cfg    config.Config
	client *http.Client
}

func NewContentService(cfg config.Config) ContentService {
	return &contentService{
		cfg:    cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

func (s *contentService) GeneratePostText(ctx context.Context, topic, tone, industry string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a LinkedIn post about %q for a professional in the %s industry. Tone: %s. No hashtag walls, no emojis in every line, under 1300 characters.",
		topic, industry, tone,
	)

	reqBody := transfer.ChatCompletionRequest{
		Model: s.cfg.OpenAIModel,
		Messages: []transfer.ChatMessage{
			{Role: "system", Content: "You write concise, engaging LinkedIn posts."},
			{Role: "user", Content: prompt},
		},
	}

	var chatResp transfer.ChatCompletionResponse
	if err := s.post(ctx, "/chat/completions", reqBody, &chatResp); err != nil {
		return "", err
	}

	if len(chatResp.Choices) == 0 {
		err := errors.New("completion response has no choices")
		slog.Info(err.Error())
		return "", err
	}

	return chatResp.Choices[0].Message.Content, nil
}

func (s *contentService) GeneratePostImage(ctx context.Context, topic string) ([]byte, error) {
	reqBody := transfer.ImageGenerationRequest{
		Model:          "dall-e-3",
		Prompt:         fmt.Sprintf("Professional illustration for a LinkedIn post about: %s. Clean, modern, no text overlay.", topic),
		N:              1,
		Size:           "1024x1024",
		ResponseFormat: "b64_json",
	}

	var imageResp transfer.ImageGenerationResponse
	if err := s.post(ctx, "/images/generations", reqBody, &imageResp); err != nil {
		return nil, err
	}

	if len(imageResp.Data) == 0 {
		err := errors.New("image response has no data")
		slog.Info(err.Error())
		return nil, err
	}

	image, err := base64.StdEncoding.DecodeString(imageResp.Data[0].B64JSON)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode generated image: %w", err)
	}

	return image, nil
}

func (s *contentService) post(ctx context.Context, path string, reqBody, out interface{}) error {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.OpenAIBaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.OpenAIAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Info(fmt.Sprintf("generation endpoint returned %d: %s", resp.StatusCode, string(body)))
		return fmt.Errorf("generation endpoint returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to decode generation response: %w", err)
	}

	return nil
}

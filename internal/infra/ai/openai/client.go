package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/moodsense-ai/moodsense/internal/domain/ai"
	"github.com/moodsense-ai/moodsense/internal/infra/ai/prompt"
)

const maxTokens = 1024

type Client struct {
	*openai.Client
	Model       string
	VisionModel string
}

func NewClient(apiKey, model, visionModel string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model, VisionModel: visionModel}
}

func (c *Client) ClassifyText(ctx context.Context, message string) (ai.TextScores, error) {
	model := c.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.TextSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.TextUserPrompt(message)},
		},
	}
	setTokenLimit(&req, model)

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return ai.TextScores{}, mapErr(err)
	}

	var scores ai.TextScores
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &scores); err != nil {
		return ai.TextScores{}, fmt.Errorf("failed to parse classifier output: %w", err)
	}
	normalizeScores(scores.Emotions)
	scores.Sentiment = strings.ToLower(scores.Sentiment)
	return scores, nil
}

func (c *Client) ClassifyImage(ctx context.Context, image []byte, mime string) (ai.FaceScores, error) {
	model := c.VisionModel
	if model == "" {
		model = "gpt-4o-mini"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(image))

	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.FaceSystemPrompt()},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt.FaceUserPrompt()},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
	}
	setTokenLimit(&req, model)

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return ai.FaceScores{}, mapErr(err)
	}

	var scores ai.FaceScores
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &scores); err != nil {
		return ai.FaceScores{}, fmt.Errorf("failed to parse classifier output: %w", err)
	}
	normalizeScores(scores.Emotions)
	return scores, nil
}

// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
func setTokenLimit(req *openai.ChatCompletionRequest, model string) {
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}
}

// mapErr translates provider quota errors into the domain sentinel.
func mapErr(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
		return ai.ErrQuotaExceeded
	}
	return fmt.Errorf("failed to create chat completion: %w", err)
}

// normalizeScores clamps model outputs into [0,1]; some models answer in percent.
func normalizeScores(scores map[string]float64) {
	var max float64
	for _, v := range scores {
		if v > max {
			max = v
		}
	}
	if max > 1.0 {
		for k, v := range scores {
			scores[k] = v / 100.0
		}
	}
}

package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Answerer produces a short spoken answer to a free-form question.
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// StaticAnswerer always steers the user back to the menu. Used when no LLM
// key is configured.
type StaticAnswerer struct{}

func (StaticAnswerer) Answer(context.Context, string) (string, error) {
	return fallbackSpeech, nil
}

const DefaultChatModel = "gpt-4o-mini"

// maxAnswerTokens keeps answers within a few spoken sentences.
const maxAnswerTokens = 180

type ChatAnswerer struct {
	client openai.Client
	model  string
}

func NewChatAnswerer(apiKey, model string, opts ...option.RequestOption) *ChatAnswerer {
	if model == "" {
		model = DefaultChatModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &ChatAnswerer{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (a *ChatAnswerer) Answer(ctx context.Context, question string) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(question),
		},
		MaxCompletionTokens: openai.Int(maxAnswerTokens),
		Temperature:         openai.Float(0.3),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return fallbackSpeech, nil
	}
	return answer, nil
}

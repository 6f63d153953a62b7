package summary

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/AtticAIInc/engram/internal/config"
)

const defaultOpenAIModel = "gpt-4o-mini"

func summarizeOpenAI(ctx context.Context, cfg config.SummaryConfig, prompt string) (string, error) {
	modelID := cfg.Model
	if modelID == "" {
		modelID = defaultOpenAIModel
	}

	client := openai.NewClient(option.WithMaxRetries(0))

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(modelID),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

package summary

import (
	"context"

	anthropicSDK "github.com/anthropics/anthropic-sdk-go"
	anthropicOption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/AtticAIInc/engram/internal/config"
)

const defaultAnthropicModel = "claude-3-5-haiku-20241022"
const summaryMaxTokens = 512

func summarizeAnthropic(ctx context.Context, cfg config.SummaryConfig, prompt string) (string, error) {
	modelID := cfg.Model
	if modelID == "" {
		modelID = defaultAnthropicModel
	}

	client := anthropicSDK.NewClient(anthropicOption.WithMaxRetries(0))

	resp, err := client.Messages.New(ctx, anthropicSDK.MessageNewParams{
		Model:     anthropicSDK.Model(modelID),
		MaxTokens: summaryMaxTokens,
		Messages: []anthropicSDK.MessageParam{
			anthropicSDK.NewUserMessage(anthropicSDK.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text, nil
}

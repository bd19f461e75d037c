package openai

import (
	"context"

	"github.com/poiesic/issuematch/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// newChatModel creates the langchaingo client shared by the ranker and the
// explainer.
func newChatModel(config *ai.Config) (llms.Model, error) {
	return openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token()),
		openai.WithModel(config.ChatModel),
	)
}

// generate sends a system and a human message and returns the first choice.
// ok is false when the model returned no choices.
func generate(ctx context.Context, model llms.Model, system, human string, opts ...llms.CallOption) (text string, ok bool, err error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, human),
	}

	response, err := model.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", false, err
	}
	if len(response.Choices) < 1 {
		return "", false, nil
	}
	return response.Choices[0].Content, true, nil
}

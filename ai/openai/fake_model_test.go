package openai

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/llms"
)

// fakeModel is an llms.Model that replays canned answers.
type fakeModel struct {
	responses []string
	err       error

	calls    int
	messages [][]llms.MessageContent
	options  []llms.CallOptions
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	f.messages = append(f.messages, messages)
	var opts llms.CallOptions
	for _, opt := range options {
		opt(&opts)
	}
	f.options = append(f.options, opts)

	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return &llms.ContentResponse{}, nil
	}
	i := min(f.calls-1, len(f.responses)-1)
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.responses[i]}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

// humanText returns the human prompt of call i.
func (f *fakeModel) humanText(i int) string {
	for _, msg := range f.messages[i] {
		if msg.Role == llms.ChatMessageTypeHuman {
			if part, ok := msg.Parts[0].(llms.TextContent); ok {
				return part.Text
			}
		}
	}
	return ""
}

// ABOUTME: OpenAI Chat Completions client with base URL support for OpenAI-compatible plan providers.
// ABOUTME: Implements muxllm.Client for text-only plan generation over openai-go's streaming API.
package llm

import (
	"context"
	"fmt"
	"log"

	muxllm "github.com/2389-research/mux/llm"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAICompatClient implements muxllm.Client using the Chat Completions API.
// Unlike mux's built-in OpenAI client it accepts a custom base URL, so it works
// with OpenRouter, Cerebras and other compatible gateways.
type OpenAICompatClient struct {
	client openai.Client
	model  string
}

// NewOpenAICompatClient creates a Chat Completions client. An empty baseURL
// targets api.openai.com.
func NewOpenAICompatClient(apiKey, model, baseURL string) *OpenAICompatClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAICompatClient{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// CreateMessage sends a request and returns the complete response.
func (c *OpenAICompatClient) CreateMessage(ctx context.Context, req *muxllm.Request) (*muxllm.Response, error) {
	resp, err := c.client.Chat.Completions.New(ctx, c.params(req))
	if err != nil {
		return nil, err
	}
	return convertCompatResponse(resp), nil
}

// CreateMessageStream sends a request and returns a channel of streaming events.
// The channel is closed after a terminal EventMessageStop or EventError.
func (c *OpenAICompatClient) CreateMessageStream(ctx context.Context, req *muxllm.Request) (<-chan muxllm.StreamEvent, error) {
	stream := c.client.Chat.Completions.NewStreaming(ctx, c.params(req))
	events := make(chan muxllm.StreamEvent, 100)

	go func() {
		defer close(events)
		defer func() {
			if r := recover(); r != nil {
				log.Printf("component=llm.openai_compat action=stream_panic err=%v", r)
				events <- muxllm.StreamEvent{Type: muxllm.EventError, Error: fmt.Errorf("panic in stream processing: %v", r)}
			}
		}()
		defer stream.Close()

		var acc openai.ChatCompletionAccumulator
		events <- muxllm.StreamEvent{Type: muxllm.EventMessageStart}

		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)
			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				events <- muxllm.StreamEvent{Type: muxllm.EventContentDelta, Text: chunk.Choices[0].Delta.Content}
			}
		}
		if err := stream.Err(); err != nil {
			events <- muxllm.StreamEvent{Type: muxllm.EventError, Error: err}
			return
		}
		events <- muxllm.StreamEvent{Type: muxllm.EventMessageStop, Response: convertCompatResponse(&acc.ChatCompletion)}
	}()

	return events, nil
}

func (c *OpenAICompatClient) params(req *muxllm.Request) openai.ChatCompletionNewParams {
	model := req.Model
	if model == "" {
		model = c.model
	}
	params := openai.ChatCompletionNewParams{Model: model}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case muxllm.RoleUser:
			messages = append(messages, openai.UserMessage(messageText(msg)))
		case muxllm.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(messageText(msg)))
		}
	}
	params.Messages = messages
	return params
}

// messageText returns the plain text of a mux message.
func messageText(msg muxllm.Message) string {
	if msg.Content != "" {
		return msg.Content
	}
	for _, block := range msg.Blocks {
		if block.Type == muxllm.ContentTypeText {
			return block.Text
		}
	}
	return ""
}

func convertCompatResponse(resp *openai.ChatCompletion) *muxllm.Response {
	result := &muxllm.Response{
		ID:    resp.ID,
		Model: resp.Model,
		Usage: muxllm.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
	}
	if len(resp.Choices) == 0 {
		return result
	}

	choice := resp.Choices[0]
	switch choice.FinishReason {
	case "length":
		result.StopReason = muxllm.StopReasonMaxTokens
	default:
		result.StopReason = muxllm.StopReasonEndTurn
	}
	if choice.Message.Content != "" {
		result.Content = append(result.Content, muxllm.ContentBlock{Type: muxllm.ContentTypeText, Text: choice.Message.Content})
	}
	return result
}

var _ muxllm.Client = (*OpenAICompatClient)(nil)

package completion

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/gjson"

	"github.com/claudecord/claudecord/internal/content"
)

// AnthropicClient implements Client on the Anthropic Messages API.
type AnthropicClient struct {
	logger *slog.Logger
	client anthropic.Client
}

func NewAnthropicClient(log *slog.Logger, apiKey, baseURL string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: api key is required")
	}
	if log == nil {
		log = slog.Default()
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &AnthropicClient{
		logger: log.With(slog.String("component", "completion")),
		client: anthropic.NewClient(opts...),
	}, nil
}

func (c *AnthropicClient) Complete(ctx context.Context, req Request) (Response, error) {
	if err := req.Validate(); err != nil {
		return Response{}, err
	}

	params, err := buildParams(req)
	if err != nil {
		return Response{}, err
	}

	c.logger.Debug("sending completion request",
		slog.String("model", req.Model),
		slog.Int("turns", len(req.Turns)))

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return Response{}, convertError(err)
	}

	var resp Response
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			resp.Text += block.Text
		case "thinking":
			resp.Reasoning += block.Thinking
		}
	}
	if resp.Text == "" {
		resp.Text = "No response."
	}

	c.logger.Debug("completion response received",
		slog.Int("text_length", len(resp.Text)),
		slog.Int("reasoning_length", len(resp.Reasoning)))
	return resp, nil
}

func buildParams(req Request) (anthropic.MessageNewParams, error) {
	msgs := make([]anthropic.MessageParam, 0, len(req.Turns))
	for _, turn := range req.Turns {
		blocks, err := convertBlocks(turn.Content)
		if err != nil {
			return anthropic.MessageNewParams{}, err
		}
		switch turn.Role {
		case RoleUser:
			msgs = append(msgs, anthropic.NewUserMessage(blocks...))
		case RoleAssistant:
			msgs = append(msgs, anthropic.NewAssistantMessage(blocks...))
		default:
			return anthropic.MessageNewParams{}, fmt.Errorf("unsupported turn role %q", turn.Role)
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: req.MaxTokens,
		Messages:  msgs,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}
	if req.TopP != nil {
		params.TopP = anthropic.Float(*req.TopP)
	}
	if req.TopK != nil {
		params.TopK = anthropic.Int(*req.TopK)
	}
	return params, nil
}

func convertBlocks(blocks []content.Block) ([]anthropic.ContentBlockParamUnion, error) {
	out := make([]anthropic.ContentBlockParamUnion, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case content.KindText:
			out = append(out, anthropic.NewTextBlock(b.Text))
		case content.KindImage:
			encoded := base64.StdEncoding.EncodeToString(b.Data)
			out = append(out, anthropic.NewImageBlockBase64(b.MediaType, encoded))
		case content.KindDocument:
			encoded := base64.StdEncoding.EncodeToString(b.Data)
			out = append(out, anthropic.ContentBlockParamUnion{
				OfDocument: &anthropic.DocumentBlockParam{
					Source: anthropic.DocumentBlockParamSourceUnion{
						OfBase64: &anthropic.Base64PDFSourceParam{Data: encoded},
					},
				},
			})
		default:
			return nil, fmt.Errorf("unsupported content block kind %q", b.Kind)
		}
	}
	return out, nil
}

func convertError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErrorMessage(apiErr.RawJSON(), apiErr.Error()),
		}
	}
	return &APIError{Message: err.Error()}
}

// apiErrorMessage pulls the human-readable message out of an API error body
// ({"type":"error","error":{"type":...,"message":...}}). The fallback covers
// bodies with no message field.
func apiErrorMessage(raw, fallback string) string {
	if msg := gjson.Get(raw, "error.message").String(); msg != "" {
		return msg
	}
	return fallback
}

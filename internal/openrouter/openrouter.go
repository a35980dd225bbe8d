package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventieBot/internal/config"
	"eventieBot/internal/utils/logger/sl"

	openrouter "github.com/revrost/go-openrouter"
	"github.com/revrost/go-openrouter/jsonschema"
)

const (
	// retryCount bounds how many times a failed request is retried.
	retryCount int = 10
	// retryDuration is the pause between retries.
	retryDuration time.Duration = 5 * time.Second
)

// Client wraps the OpenRouter API behind the two completion shapes the
// rest of the service needs: free text and schema-constrained JSON.
type Client struct {
	logger          *slog.Logger
	cfg             *config.Config
	Client          *openrouter.Client
	shutdownChannel chan struct{}
}

func NewClient(logger *slog.Logger, cfg *config.Config) *Client {
	op := "openrouter.NewClient()"
	log := logger.With(slog.String("op", op))

	client := openrouter.NewClient(cfg.BotConfig.AI.AIApiToken)

	log.Info("creating openrouter client", slog.String("model", cfg.BotConfig.AI.ModelName))

	return &Client{
		logger:          logger,
		cfg:             cfg,
		Client:          client,
		shutdownChannel: make(chan struct{}),
	}
}

// Complete sends a single-message completion and returns the raw text.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	op := "openrouter.Complete()"
	log := c.logger.With(slog.String("op", op))

	resp, err := c.createWithRetry(ctx, log, openrouter.ChatCompletionRequest{
		Model: c.cfg.BotConfig.AI.ModelName,
		Messages: []openrouter.ChatCompletionMessage{
			openrouter.UserMessage(prompt),
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: empty AI response", op)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content.Text), nil
}

// CompleteStructured sends a completion constrained by the JSON schema
// generated from out, and unmarshals the cleaned response into out.
func (c *Client) CompleteStructured(ctx context.Context, prompt string, schemaName string, out any, maxTokens int, temperature float32) error {
	op := "openrouter.CompleteStructured()"
	log := c.logger.With(slog.String("op", op), slog.String("schema", schemaName))

	schema, err := jsonschema.GenerateSchemaForType(out)
	if err != nil {
		log.Error("GenerateSchemaForType error", sl.Err(err))
		return fmt.Errorf("%s: GenerateSchemaForType: %w", op, err)
	}

	resp, err := c.createWithRetry(ctx, log, openrouter.ChatCompletionRequest{
		Model: c.cfg.BotConfig.AI.ModelName,
		Messages: []openrouter.ChatCompletionMessage{
			openrouter.SystemMessage(c.cfg.BotConfig.AI.SystemRolePrompt),
			openrouter.UserMessage(prompt),
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
		ResponseFormat: &openrouter.ChatCompletionResponseFormat{
			Type: "json_schema",
			JSONSchema: &openrouter.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Strict: true,
				Schema: schema,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if len(resp.Choices) == 0 {
		return fmt.Errorf("%s: empty AI response", op)
	}

	cleaned := cleanJSONResponse(resp.Choices[0].Message.Content.Text)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		log.Error("error unmarshal response", sl.Err(err), slog.String("response", cleaned))
		return fmt.Errorf("%s: unmarshal: %w", op, err)
	}

	return nil
}

// createWithRetry retries rate-limit (429) and connection-reset (EOF)
// failures. The caller's context still bounds the whole exchange.
func (c *Client) createWithRetry(ctx context.Context, log *slog.Logger, req openrouter.ChatCompletionRequest) (openrouter.ChatCompletionResponse, error) {
	var resp openrouter.ChatCompletionResponse
	var err error

	for retry := range retryCount {
		select {
		case <-c.shutdownChannel:
			return openrouter.ChatCompletionResponse{}, fmt.Errorf("shutdown openrouter client")
		case <-ctx.Done():
			return openrouter.ChatCompletionResponse{}, ctx.Err()
		default:
		}

		resp, err = c.Client.CreateChatCompletion(ctx, req)
		if err != nil && (isRateLimitError(err) || isEOFError(err)) {
			log.Error("AI completion error", sl.Err(err), slog.Int("retry", retry))
			select {
			case <-ctx.Done():
				return openrouter.ChatCompletionResponse{}, ctx.Err()
			case <-time.After(retryDuration):
			}
			continue
		}
		break
	}

	if err != nil {
		return openrouter.ChatCompletionResponse{}, fmt.Errorf("AI completion failed: %w", err)
	}

	return resp, nil
}

// isRateLimitError checks for an HTTP 429 by error text. Less reliable
// than a status code check, but the client does not expose one.
func isRateLimitError(err error) bool {
	if err != nil {
		return strings.Contains(err.Error(), "429")
	}
	return false
}

// isEOFError checks for a dropped connection worth retrying.
func isEOFError(err error) bool {
	if err != nil {
		return strings.Contains(err.Error(), "EOF")
	}
	return false
}

// cleanJSONResponse strips markdown fences and trailing chatter some
// models wrap around a JSON object.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if after, ok := strings.CutPrefix(response, "```json"); ok {
		response = after
	} else if after0, ok0 := strings.CutPrefix(response, "```"); ok0 {
		response = after0
	}

	response = strings.TrimSpace(response)

	startIdx := strings.Index(response, "{")
	if startIdx == -1 {
		return response
	}

	// Find the matching closing brace, respecting nesting and strings.
	depth := 0
	endIdx := -1
	inString := false
	escaped := false

	for i := startIdx; i < len(response); i++ {
		c := response[i]

		if escaped {
			escaped = false
			continue
		}

		if c == '\\' && inString {
			escaped = true
			continue
		}

		if c == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if c == '{' {
			depth++
		} else if c == '}' {
			depth--
			if depth == 0 {
				endIdx = i
				break
			}
		}
	}

	if endIdx != -1 {
		return response[startIdx : endIdx+1]
	}

	return response
}

// Shutdown stops the client. Pending retries abort on the next check.
func (c *Client) Shutdown(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("force exit AI client: %w", ctx.Err())
	default:
		close(c.shutdownChannel)
		return nil
	}
}

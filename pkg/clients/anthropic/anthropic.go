package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
	model      = "claude-3-haiku-20240307"
	maxTokens  = 64
)

// UnknownCommand is returned by the model when a message maps to no command.
const UnknownCommand = "unknown"

// ErrEmptyResponse is returned when the API answers without content.
var ErrEmptyResponse = errors.New("empty response from ai")

// Client translates free text into bot commands.
type Client interface {
	TranslateToCommand(ctx context.Context, input string) (string, error)
}

type anthropicClient struct {
	httpClient *resty.Client
	endpoint   string
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string) Client {
	return newClient(apiKey, apiURL)
}

func newClient(apiKey, endpoint string) *anthropicClient {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(15 * time.Second)

	return &anthropicClient{httpClient: client, endpoint: endpoint}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

const systemPrompt = `You translate messages from egg farm workers into one bot command.
Workers write in French or English, often informally.

Commands:
eggs <flock> <qty> [deaths]        eggs collected for a flock today
feed <flock> <kg>                  feed consumed by a flock today, in kg
mortality <flock> <qty> [reason]   dead birds
sales <qty> <price> [paid] [client]
expenses <amount> <category>
kpi | risk | alerts | forecast [days] | health <flock> | help

Rules:
- Answer with the command line only. No punctuation, quotes or explanation.
- Use numbers with a dot as decimal separator.
- Keep flock identifiers exactly as written (for example L1, B2).
- If the message is a question about farm status, pick the closest query command.
- If nothing fits, answer: unknown`

// TranslateToCommand asks the model for the command line matching input.
// It returns UnknownCommand when the model finds none.
func (c *anthropicClient) TranslateToCommand(ctx context.Context, input string) (string, error) {
	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages:  []message{{Role: "user", Content: input}},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic api error: status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(respBody.Content) == 0 {
		return "", ErrEmptyResponse
	}

	return cleanCommand(respBody.Content[0].Text), nil
}

// cleanCommand keeps the first non-empty line and strips code fences and a leading slash.
func cleanCommand(text string) string {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, "`")
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "/")
		if strings.EqualFold(line, UnknownCommand) {
			return UnknownCommand
		}
		return line
	}
	return UnknownCommand
}

package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/bernardo0921/AgriGuide-Backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel               = "gemini-2.5-flash"
	requestBodyReadLimit int64 = 1024
)

var (
	errAPIKeyRequired = errors.New("gemini api key is required")
)

// Role identifies who authored a chat turn.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Client wraps the Gemini generateContent API used for the farming assistant.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Gemini base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithModel overrides the default model identifier.
func WithModel(model string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(model)
		if trimmed != "" {
			c.model = trimmed
		}
	}
}

// NewClient builds the Gemini client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}
	if client.model == "" {
		client.model = defaultModel
	}

	return client, nil
}

// Turn is a single chat turn in the conversation history.
type Turn struct {
	Role string
	Text string
}

type contentPayload struct {
	Role  string        `json:"role,omitempty"`
	Parts []partPayload `json:"parts"`
}

type partPayload struct {
	Text string `json:"text"`
}

type generateRequest struct {
	SystemInstruction *contentPayload  `json:"systemInstruction,omitempty"`
	Contents          []contentPayload `json:"contents"`
}

// GenerateContent sends the conversation to the model and returns the reply text.
func (c *Client) GenerateContent(ctx context.Context, systemInstruction string, turns []Turn) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "gemini client not configured")
	}
	if len(turns) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "at least one chat turn is required")
	}

	req := generateRequest{
		Contents: make([]contentPayload, 0, len(turns)),
	}
	if strings.TrimSpace(systemInstruction) != "" {
		req.SystemInstruction = &contentPayload{
			Parts: []partPayload{{Text: systemInstruction}},
		}
	}
	for _, turn := range turns {
		role := turn.Role
		if role != RoleUser && role != RoleModel {
			return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid chat role %q", role))
		}
		req.Contents = append(req.Contents, contentPayload{
			Role:  role,
			Parts: []partPayload{{Text: turn.Text}},
		})
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal generate request")
	}

	endpoint := fmt.Sprintf(
		"%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.baseURL, "/"),
		url.PathEscape(c.model),
		url.QueryEscape(c.apiKey),
	)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build generate request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute generate request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "generate request failed")
	}

	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode generate response")
	}

	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "gemini returned no candidates")
	}

	var builder strings.Builder
	for _, part := range apiResp.Candidates[0].Content.Parts {
		builder.WriteString(part.Text)
	}
	reply := strings.TrimSpace(builder.String())
	if reply == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "gemini returned an empty reply")
	}
	return reply, nil
}

package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAIClient talks to an OpenAI-compatible chat/completions endpoint. It
// is scoped to a single caller's API key.
type OpenAIClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewOpenAIClient(baseURL, apiKey string) *OpenAIClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 90 * time.Second},
	}
}

// Factory returns a ClientFactory bound to a base URL. The pipeline calls
// it once per request with the caller's key.
func Factory(baseURL string) ClientFactory {
	return func(apiKey string) Client {
		return NewOpenAIClient(baseURL, apiKey)
	}
}

type chatMsg struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []toolCall `json:"tool_calls,omitempty"`
}

type toolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type chatReq struct {
	Model    string    `json:"model"`
	Messages []chatMsg `json:"messages"`
	Stream   bool      `json:"stream"`
	Tools    []Tool    `json:"tools,omitempty"`
}

type chatResp struct {
	Choices []struct {
		Message chatMsg `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type streamResp struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *OpenAIClient) wireMessages(req GenerateRequest) []chatMsg {
	out := make([]chatMsg, 0, len(req.Messages)+1)
	if req.System != "" {
		out = append(out, chatMsg{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		out = append(out, chatMsg{Role: m.Role, Content: m.Content})
	}
	return out
}

func (c *OpenAIClient) post(ctx context.Context, body any) (*http.Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(c.BaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		resp.Body.Close()
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("openai: %s", msg)
	}
	return resp, nil
}

// Generate runs one blocking completion. When the model answers with a tool
// call for a known tool, the tool runs once and its result is fed back in a
// single follow-up completion. There is no tool loop.
func (c *OpenAIClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if c.HTTP == nil {
		return "", errors.New("openai: http client is nil")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return "", errors.New("openai: api key is required")
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		return "", errors.New("openai: model is required")
	}

	msgs := c.wireMessages(req)

	resp, err := c.post(ctx, chatReq{Model: model, Messages: msgs, Tools: req.Tools})
	if err != nil {
		return "", err
	}
	var decoded chatResp
	err = json.NewDecoder(resp.Body).Decode(&decoded)
	resp.Body.Close()
	if err != nil {
		return "", err
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", errors.New(decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("openai: empty response")
	}

	choice := decoded.Choices[0].Message
	if len(choice.ToolCalls) == 0 {
		return choice.Content, nil
	}

	// One tool round. Unknown tools report an error result so the model can
	// still answer.
	msgs = append(msgs, choice)
	for _, tc := range choice.ToolCalls {
		result := runTool(ctx, tc.Function.Name, tc.Function.Arguments)
		msgs = append(msgs, chatMsg{Role: "tool", ToolCallID: tc.ID, Content: result})
	}

	resp, err = c.post(ctx, chatReq{Model: model, Messages: msgs})
	if err != nil {
		return "", err
	}
	decoded = chatResp{}
	err = json.NewDecoder(resp.Body).Decode(&decoded)
	resp.Body.Close()
	if err != nil {
		return "", err
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", errors.New(decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("openai: empty response")
	}
	return decoded.Choices[0].Message.Content, nil
}

// Stream streams completion deltas over SSE.
func (c *OpenAIClient) Stream(ctx context.Context, req GenerateRequest) (<-chan string, <-chan error) {
	chunks := make(chan string, 16)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errs)

		if c.HTTP == nil {
			errs <- errors.New("openai: http client is nil")
			return
		}
		if strings.TrimSpace(c.APIKey) == "" {
			errs <- errors.New("openai: api key is required")
			return
		}
		model := strings.TrimSpace(req.Model)
		if model == "" {
			errs <- errors.New("openai: model is required")
			return
		}

		if c.HTTP.Timeout < 30*time.Second {
			c.HTTP.Timeout = 0
		}

		resp, err := c.post(ctx, chatReq{Model: model, Messages: c.wireMessages(req), Stream: true})
		if err != nil {
			errs <- err
			return
		}
		defer resp.Body.Close()

		sc := bufio.NewScanner(resp.Body)
		buf := make([]byte, 0, 64*1024)
		sc.Buffer(buf, 2*1024*1024)

		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return
			}
			var decoded streamResp
			if err := json.Unmarshal([]byte(data), &decoded); err != nil {
				errs <- err
				return
			}
			if decoded.Error != nil && decoded.Error.Message != "" {
				errs <- errors.New(decoded.Error.Message)
				return
			}
			if len(decoded.Choices) == 0 {
				continue
			}
			if delta := decoded.Choices[0].Delta.Content; delta != "" {
				chunks <- delta
			}
		}

		if err := sc.Err(); err != nil {
			errs <- err
		}
	}()

	return chunks, errs
}

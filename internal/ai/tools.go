package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Tool is an OpenAI function-tool declaration.
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

type ToolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// WeatherTool is the one tool exposed on the chat generation path.
// Document and artifact tools need the full interactive loop and are not
// offered here.
func WeatherTool() Tool {
	return Tool{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_weather",
			Description: "Get the current weather at a location",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"latitude": {"type": "number"},
					"longitude": {"type": "number"}
				},
				"required": ["latitude", "longitude"]
			}`),
		},
	}
}

// ChatTools is the bounded toolset for the mediation pipeline.
func ChatTools() []Tool {
	return []Tool{WeatherTool()}
}

type weatherArgs struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// runTool executes a tool call and returns its result as a string for the
// follow-up completion. Failures are reported in-band so generation can
// still finish.
func runTool(ctx context.Context, name, arguments string) string {
	switch name {
	case "get_weather":
		var args weatherArgs
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return fmt.Sprintf(`{"error": %q}`, "invalid arguments")
		}
		out, err := FetchWeather(ctx, args.Latitude, args.Longitude)
		if err != nil {
			return fmt.Sprintf(`{"error": %q}`, err.Error())
		}
		return out
	default:
		return fmt.Sprintf(`{"error": "unknown tool %s"}`, name)
	}
}

// FetchWeather queries Open-Meteo for the current temperature at a point
// and returns the raw JSON payload.
func FetchWeather(ctx context.Context, latitude, longitude float64) (string, error) {
	url := fmt.Sprintf(
		"https://api.open-meteo.com/v1/forecast?latitude=%f&longitude=%f&current=temperature_2m&hourly=temperature_2m&daily=sunrise,sunset&timezone=auto",
		latitude, longitude,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("open-meteo: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

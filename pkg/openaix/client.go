// Package openaix provides an OpenAI-compatible chat-completions client
// implementing the enrichment step's VisionClient and ValuationClient.
package openaix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/AutoHawkAI/autohawk-mvp/engine/enrich"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gpt-4.1-mini"

const plateInstruction = "Extract ONLY the license plate number from this car photo. " +
	"Return nothing else - just the plate number text, no explanations."

const valuationSystemPrompt = "You are an expert automotive pricing analyst. Given the scraped " +
	"listing details and detected license plate, estimate the fair market price and a confidence note."

// Client talks to an OpenAI-compatible /v1/chat/completions endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// New creates a Client. baseURL is the API root (e.g. "https://api.openai.com").
func New(baseURL, apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{},
	}
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat json.RawMessage `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// valuationSchema constrains the valuation response to exactly the five
// expected fields.
var valuationSchema = json.RawMessage(`{
  "type": "json_schema",
  "json_schema": {
    "name": "valuation",
    "strict": true,
    "schema": {
      "type": "object",
      "properties": {
        "fair_price": {"type": "number"},
        "range_low": {"type": "number"},
        "range_high": {"type": "number"},
        "confidence": {"type": "number"},
        "notes": {"type": "string"}
      },
      "required": ["fair_price", "range_low", "range_high", "confidence", "notes"],
      "additionalProperties": false
    }
  }
}`)

// ReadPlate implements enrich.VisionClient.
func (c *Client) ReadPlate(ctx context.Context, image string) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: plateInstruction},
				{Type: "image_url", ImageURL: &imageURL{URL: image}},
			},
		}},
	}
	return c.complete(ctx, req)
}

// ValueListing implements enrich.ValuationClient.
func (c *Client) ValueListing(ctx context.Context, v enrich.ValuationRequest) (enrich.Valuation, error) {
	summary, err := json.Marshal(v)
	if err != nil {
		return enrich.Valuation{}, fmt.Errorf("openaix: marshal listing summary: %w", err)
	}

	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: []contentPart{{Type: "text", Text: valuationSystemPrompt}},
			},
			{
				Role: "user",
				Content: []contentPart{{
					Type: "text",
					Text: "Return a JSON object with fields fair_price, range_low, range_high, " +
						"confidence, and notes for the following car: " + string(summary),
				}},
			},
		},
		ResponseFormat: valuationSchema,
	}

	text, err := c.complete(ctx, req)
	if err != nil {
		return enrich.Valuation{}, err
	}

	var out enrich.Valuation
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return enrich.Valuation{}, fmt.Errorf("openaix: valuation response shape: %w", err)
	}
	return out, nil
}

func (c *Client) complete(ctx context.Context, payload chatRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("openaix: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openaix: chat completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openaix: chat completion: status %d", resp.StatusCode)
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("openaix: decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openaix: response contained no choices")
	}
	return result.Choices[0].Message.Content, nil
}

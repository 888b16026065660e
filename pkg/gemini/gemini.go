// Package gemini calls the Google Generative Language API for short profile
// and icebreaker text. Every failure degrades to a fixed local string; the
// service never returns an error to callers.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Service produces short generated text for bios and icebreakers.
type Service interface {
	GenerateBio(ctx context.Context, interests, station, name string) string
	GenerateIcebreaker(ctx context.Context) string
}

// Client talks to the generateContent endpoint of the Generative Language API.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

func NewClient(baseURL, apiKey, model string) *Client {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	if model == "" {
		model = "gemini-3-flash-preview"
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type generateReq struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResp struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// generate runs one prompt and returns the first candidate's text.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(generateReq{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.BaseURL, c.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini: generate failed: %d %s", resp.StatusCode, string(respBody))
	}
	var out generateResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text), nil
}

// GenerateBio writes a short dating bio. Degrades to canned text when the key
// is missing, the call fails or the model returns nothing.
func (c *Client) GenerateBio(ctx context.Context, interests, station, name string) string {
	if c.APIKey == "" {
		log.Printf("[gemini] API key missing, using mock bio")
		return fmt.Sprintf("Hi, I'm %s from %s. I like %s. (AI Key missing)", name, station, interests)
	}
	prompt := fmt.Sprintf(
		"Write a short, witty, and friendly dating app bio (max 150 chars) for someone named %s living in %s, Malda district, West Bengal. Their interests are: %s. Include a local reference if possible (like mangoes, local rivers, or culture). Don't use hashtags.",
		name, station, interests)
	text, err := c.generate(ctx, prompt)
	if err != nil {
		log.Printf("[gemini] bio generation failed: %v", err)
		return "Loves long walks and fresh mangoes."
	}
	if text == "" {
		return "Ready to mingle in Malda!"
	}
	return text
}

// GenerateIcebreaker produces one conversation-starter question.
func (c *Client) GenerateIcebreaker(ctx context.Context) string {
	if c.APIKey == "" {
		return "What's your favorite place in Malda?"
	}
	text, err := c.generate(ctx, "Generate a single, fun, casual question to start a conversation with a stranger in Malda, West Bengal. Keep it short.")
	if err != nil {
		log.Printf("[gemini] icebreaker generation failed: %v", err)
		return "Do you like Himsagar or Langra mangoes better?"
	}
	if text == "" {
		return "How's the weather today?"
	}
	return text
}

// Package genai calls the external question-generation service. The model
// behind it is opaque: we send generation parameters, we get questions back.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/quizforge/quizforge-api/internal/quiz"
)

// Client implements quiz.QuestionGenerator over an HTTP generation endpoint.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: 60 * time.Second},
	}
}

type generateResponse struct {
	Questions []quiz.Question `json:"questions"`
}

func (c *Client) Generate(ctx context.Context, p quiz.GenerateParams) ([]quiz.Question, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/questions:generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("question generation request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("question generation: unexpected status %d", resp.StatusCode)
	}
	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("question generation: decode response: %w", err)
	}
	if len(out.Questions) == 0 {
		return nil, fmt.Errorf("question generation: empty question list")
	}
	for i := range out.Questions {
		if out.Questions[i].ID == "" {
			out.Questions[i].ID = uuid.NewString()
		}
	}
	return out.Questions, nil
}

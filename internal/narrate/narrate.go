package narrate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/wxtools/zipcast/internal/config"
	"github.com/wxtools/zipcast/internal/model"
)

var ErrEmptyScript = errors.New("narration API returned no script")

// Client talks to an OpenAI-compatible API to turn a rendered forecast into a
// spoken script and synthesize it to audio.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	ttsModel   string
	voice      string
	prompt     string
}

// NewClient creates a narration client for the given API key. An optional
// http.Client can be injected for tests.
func NewClient(apiKey string, httpClient ...*http.Client) *Client {
	client := &http.Client{Timeout: config.GetHTTPTimeout()}
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &Client{
		httpClient: client,
		baseURL:    config.GetNarrationBaseURL(),
		apiKey:     apiKey,
		model:      config.GetNarrationModel(),
		ttsModel:   config.GetNarrationTTSModel(),
		voice:      config.GetNarrationVoice(),
		prompt:     config.GetNarrationPrompt(),
	}
}

// GenerateScript rewrites the forecast text as a short spoken-style script
// using the configured announcer persona.
func (c *Client) GenerateScript(ctx context.Context, forecastText string) (string, error) {
	reqBody := model.ChatCompletionRequest{
		Model: c.model,
		Messages: []model.ChatMessage{
			{Role: "system", Content: c.prompt},
			{Role: "user", Content: forecastText},
		},
	}

	respBody, err := c.postJSON(ctx, "/chat/completions", reqBody)
	if err != nil {
		return "", fmt.Errorf("generating script: %w", err)
	}

	var completion model.ChatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("decoding script response: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", ErrEmptyScript
	}

	return completion.Choices[0].Message.Content, nil
}

// Synthesize converts the script to speech and writes the audio stream to a
// temporary file. The caller is responsible for removing the file.
func (c *Client) Synthesize(ctx context.Context, script string) (string, error) {
	reqBody := model.SpeechRequest{
		Model: c.ttsModel,
		Voice: c.voice,
		Input: script,
	}

	audio, err := c.postJSON(ctx, "/audio/speech", reqBody)
	if err != nil {
		return "", fmt.Errorf("synthesizing audio: %w", err)
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("zipcast-%s.mp3", uuid.NewString()))
	if err := os.WriteFile(path, audio, 0o600); err != nil {
		return "", fmt.Errorf("writing audio file: %w", err)
	}

	return path, nil
}

// postJSON sends one POST and returns the raw response body on a 2xx status.
// Narration calls are not idempotent, so there is no retry here.
func (c *Client) postJSON(ctx context.Context, path string, body any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("narration API error: status %d: %s", resp.StatusCode, respBody)
	}

	return respBody, nil
}

package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/wxtools/zipcast/internal/config"
	"github.com/wxtools/zipcast/internal/model"
)

// Client posts forecast messages to Discord-compatible chat webhooks.
type Client struct {
	httpClient *http.Client
}

func NewClient(httpClient ...*http.Client) *Client {
	client := &http.Client{Timeout: config.GetHTTPTimeout()}
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &Client{httpClient: client}
}

// Post delivers text to the webhook URL. When audioPath is non-empty the
// message goes out as multipart form data with the audio file attached;
// otherwise as a plain JSON payload.
func (c *Client) Post(ctx context.Context, url, text, audioPath string) error {
	if audioPath == "" {
		return c.postJSON(ctx, url, text)
	}
	return c.postMultipart(ctx, url, text, audioPath)
}

func (c *Client) postJSON(ctx context.Context, url, text string) error {
	body, err := json.Marshal(model.WebhookPayload{Content: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(req)
}

func (c *Client) postMultipart(ctx context.Context, url, text, audioPath string) error {
	audio, err := os.Open(audioPath)
	if err != nil {
		return fmt.Errorf("opening audio file: %w", err)
	}
	defer audio.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	payload, err := json.Marshal(model.WebhookPayload{Content: text})
	if err != nil {
		return err
	}
	if err := w.WriteField("payload_json", string(payload)); err != nil {
		return err
	}

	part, err := w.CreateFormFile("files[0]", filepath.Base(audioPath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.send(req)
}

func (c *Client) send(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook error: status %d: %s", resp.StatusCode, body)
	}
	return nil
}

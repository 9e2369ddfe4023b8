package model

// ChatCompletionRequest is the request body for an OpenAI-compatible
// /chat/completions endpoint.
type ChatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse carries the generated script in
// Choices[0].Message.Content.
type ChatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// SpeechRequest is the request body for an OpenAI-compatible /audio/speech
// endpoint. The response body is the raw audio stream.
type SpeechRequest struct {
	Model string `json:"model"`
	Voice string `json:"voice"`
	Input string `json:"input"`
}

// WebhookPayload is the JSON body posted to a Discord-compatible webhook.
type WebhookPayload struct {
	Content string `json:"content"`
}

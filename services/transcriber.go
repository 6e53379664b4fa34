package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"
)

// ============================================================================
// TRANSCRIBER SERVICE - Audio transcription for journal entries
// Calls a Whisper-compatible /audio/transcriptions endpoint. The API
// base is env-configured so the hosted OpenAI endpoint or a local
// whisper server both work.
// ============================================================================

type TranscriberService struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

func NewTranscriberService() *TranscriberService {
	apiURL := os.Getenv("TRANSCRIBE_API_URL")
	if apiURL == "" {
		apiURL = "https://api.openai.com/v1"
	}

	model := os.Getenv("TRANSCRIBE_MODEL")
	if model == "" {
		model = "whisper-1"
	}

	return &TranscriberService{
		apiURL:     strings.TrimRight(apiURL, "/"),
		apiKey:     os.Getenv("TRANSCRIBE_API_KEY"),
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Transcribe sends an audio blob for transcription and returns the text.
func (s *TranscriberService) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("TRANSCRIBE_API_KEY not set")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := writer.WriteField("model", s.model); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse transcription response: %w", err)
	}

	return strings.TrimSpace(parsed.Text), nil
}

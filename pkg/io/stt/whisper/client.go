package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/liuwen-dev/vocana/pkg/Logger"
)

// fillerPhrases mark transcripts that are mostly unrelated boilerplate
// (video outro speech the ASR model hallucinates on silence); such results
// are rejected as empty.
var fillerPhrases = []string{"点赞", "关注", "谢"}

// TranscriptionResponse is the whisper service response shape.
type TranscriptionResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Client calls an external whisper ASR service. When the model is not
// loaded (enabled=false) transcription degrades to always returning empty
// text instead of failing the session.
type Client struct {
	baseURL    string
	enabled    bool
	httpClient *http.Client
	logger     *Logger.Logger
}

func NewClient(baseURL string, enabled bool, logger *Logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		enabled: enabled,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Transcribe sends one audio payload to the whisper service and returns the
// recognized text. Empty text means the model is unavailable or the result
// was rejected by the filler heuristics.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if !c.enabled {
		c.logger.Debug("ASR model not loaded, skipping transcription")
		return "", nil
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("empty audio payload")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio_file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	initialPrompt := url.QueryEscape("这是一段简体中文的音频")
	requestURL := fmt.Sprintf("%s/asr?encode=true&task=transcribe&language=zh&output=json&initial_prompt=%s",
		c.baseURL, initialPrompt)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach whisper service: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("whisper service returned status %d: %s", resp.StatusCode, string(responseBody))
	}

	var transcription TranscriptionResponse
	if err := json.Unmarshal(responseBody, &transcription); err != nil {
		// some deployments answer plain text
		text := strings.TrimSpace(string(responseBody))
		if text == "" {
			return "", fmt.Errorf("failed to decode whisper response: %w", err)
		}
		transcription.Text = text
	}

	text := strings.TrimSpace(transcription.Text)
	if RejectedByFillerFilter(text) {
		c.logger.Debugf("transcript rejected by filler filter: %q", text)
		return "", nil
	}
	return text, nil
}

// RejectedByFillerFilter reports whether a transcript consists of the known
// junk phrases the model produces on near-silent input.
func RejectedByFillerFilter(text string) bool {
	for _, phrase := range fillerPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
